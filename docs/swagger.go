// Package docs ComplyReady API documentation
package docs

// Swagger documentation info
// @title ComplyReady API
// @version 1.0
// @description Compliance readiness assessment backend: AI-generated questionnaires, weighted scoring, remediation tracking.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@complyready.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name organizations
// @tag.description Organization profile management

// @tag.name assessments
// @tag.description Assessment lifecycle: start, resume, answer, submit

// @tag.name reports
// @tag.description Compliance reports and history

// @tag.name actions
// @tag.description Remediation action tracking

// @tag.name dashboard
// @tag.description Aggregated compliance posture

// @tag.name websocket
// @tag.description Real-time score events
