package main

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/server/endpoints"
)

var fillCmd = &cobra.Command{
	Use:   "fill <form-id>",
	Short: "Fill in a form interactively and submit it",
	Long: `Fetch a form template from the server, prompt for each field and
submit the answers as a new response. Requires a session token
(--token or FORMASSIST_TOKEN).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := api.NewClient(getServerURL())
		id := url.PathEscape(args[0])

		var tmpl forms.Template
		if err := client.Get(ctx, "/api/forms/"+id, &tmpl); err != nil {
			return err
		}
		fmt.Printf("%s\n", tmpl.Title)
		if tmpl.Description != "" {
			fmt.Printf("%s\n", tmpl.Description)
		}
		fmt.Println()

		data := make(map[string]any, len(tmpl.Schema.Fields))
		for _, f := range tmpl.Schema.Fields {
			answer, err := askField(f)
			if err != nil {
				return err
			}
			if answer != "" {
				data[f.Name] = answer
			}
		}

		var result endpoints.SubmitResponse
		if err := client.Post(ctx, "/api/forms/"+id+"/responses", endpoints.SubmitRequest{Data: data}, &result); err != nil {
			return err
		}
		return api.Output(result)
	},
}

// askField prompts for one field using the widget that matches its type.
func askField(f forms.FormField) (string, error) {
	label := f.Label
	if label == "" {
		label = f.Name
	}

	var prompt survey.Prompt
	switch {
	case f.Type == forms.TypeSelect && len(f.Options) > 0:
		sel := &survey.Select{Message: label, Options: f.Options}
		if slices.Contains(f.Options, f.Default) {
			sel.Default = f.Default
		}
		prompt = sel
	case f.Type == forms.TypeTextarea:
		prompt = &survey.Multiline{Message: label, Default: f.Default}
	default:
		prompt = &survey.Input{Message: label, Default: f.Default, Help: f.Placeholder}
	}

	var opts []survey.AskOpt
	if f.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if v := fieldValidator(f.Type); v != nil {
		opts = append(opts, survey.WithValidator(v))
	}

	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// fieldValidator rejects obviously malformed email and number answers
// before they reach the server. Empty answers pass.
func fieldValidator(fieldType string) survey.Validator {
	switch fieldType {
	case forms.TypeEmail:
		return func(ans any) error {
			s, _ := ans.(string)
			if s != "" && !strings.Contains(s, "@") {
				return errors.New("not an email address")
			}
			return nil
		}
	case forms.TypeNumber:
		return func(ans any) error {
			s, _ := ans.(string)
			if s == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return errors.New("not a number")
			}
			return nil
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(fillCmd)
}
