package endpoints

import (
	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/defra"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	DefraManager *defra.DockerManager
	Backend      string
	Version      string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&APIHealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{Backend: cfg.Backend, Version: cfg.Version, DefraManager: cfg.DefraManager},

		// Auth
		&LoginEndpoint{},
		&RegisterEndpoint{},
		&MeEndpoint{},
		&LogoutEndpoint{},

		// Seeding
		&SeedEndpoint{},
		&AdminSeedEndpoint{},

		// Form templates
		&ListFormsEndpoint{},
		&GetFormEndpoint{},
		&CreateFormEndpoint{},
		&UpdateFormEndpoint{},
		&DeleteFormEndpoint{},
		&GenerateFormEndpoint{},
		&ImportOpenAPIEndpoint{},
		&IngestFormEndpoint{},
		&MergeEndpoint{},

		// Responses
		&SubmitResponseEndpoint{},
		&ListResponsesEndpoint{},
		&DownloadResponseEndpoint{},
		&ResponsePDFEndpoint{},

		// Documents
		&OCRExtractEndpoint{},
		&PDFFieldsEndpoint{},
		&PDFFillEndpoint{},

		// Voice
		&SpeakEndpoint{},
		&TranscribeEndpoint{},

		// Text helpers
		&CleanEndpoint{},
		&SummarizeEndpoint{},
		&TranslateEndpoint{},
		&PhrasesEndpoint{},
		&EnhanceOCREndpoint{},
		&AnalyzeDocumentEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
