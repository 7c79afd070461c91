// Package docs provides generated OpenAPI documentation.
//
// Formassist API
//
//	@title			Formassist API
//	@version		1.0
//	@description	Form assistant backend: document field extraction, form templates, responses, PDF filling and speech.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/formassist
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package docs

//go:generate swag init -g ../cmd/formassist/serve.go -o ./swagger --parseDependency --parseInternal
