package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
)

func TestClient_BearerTokenAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"Not authenticated"}`)
			return
		}
		io.WriteString(w, `{"username":"admin"}`)
	}))
	defer srv.Close()

	ctx := context.Background()

	var out struct {
		Username string `json:"username"`
	}
	if err := NewClient(srv.URL, WithToken("secret")).Get(ctx, "/api/auth/me", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Username != "admin" {
		t.Errorf("username = %q", out.Username)
	}

	err := NewClient(srv.URL).Get(ctx, "/api/auth/me", &out)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusUnauthorized || se.Message != "Not authenticated" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"filename":"`+header.Filename+`","size":`+strconv.Itoa(len(body))+`}`)
	}))
	defer srv.Close()

	var out struct {
		Filename string `json:"filename"`
		Size     int    `json:"size"`
	}
	err := NewClient(srv.URL).Upload(context.Background(), "/api/ocr/extract",
		[]File{{Field: "file", Filename: "scan.txt", Data: []byte("Name: Asha")}}, &out)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if out.Filename != "scan.txt" || out.Size != 10 {
		t.Errorf("got %+v", out)
	}
}

type fakeEndpoint struct {
	use, group string
}

func (f fakeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/" + f.use, func(w http.ResponseWriter, r *http.Request) {}
}
func (f fakeEndpoint) RequiresInit() bool { return false }
func (f fakeEndpoint) Command(func() string) *cobra.Command {
	return &cobra.Command{Use: f.use}
}
func (f fakeEndpoint) Group() string { return f.group }

func TestRegistry_BuildCommandsGroups(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeEndpoint{use: "health"}, fakeEndpoint{use: "list", group: "forms"}, fakeEndpoint{use: "get", group: "forms"})

	root := r.BuildCommands(func() string { return "" })
	if _, _, err := root.Find([]string{"health"}); err != nil {
		t.Errorf("health: %v", err)
	}
	cmd, _, err := root.Find([]string{"forms", "get"})
	if err != nil || cmd.Use != "get" {
		t.Errorf("forms get: %v %v", cmd, err)
	}
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("yaml")
	if err := SetOutputFormat("json"); err != nil || GetOutputFormat() != OutputFormatJSON {
		t.Errorf("json: %v %v", err, GetOutputFormat())
	}
	if err := SetOutputFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
