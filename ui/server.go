package ui

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"serialsheets/domain/pipeline"
	"serialsheets/domain/sheet"
)

//go:embed templates/* static/* help.md
var embeddedFiles embed.FS

// Server represents the web server for the SerialSheets UI. Page rendering is
// server-side; mutations go through the JSON API mounted under /api.
type Server struct {
	router    *gin.Engine
	sheets    *sheet.Collection
	api       http.Handler
	templates *template.Template
}

// Config holds UI application configuration
type Config struct {
	Port    string
	GinMode string
}

// NewServer creates a new web server instance around the shared sheet
// collection and the API handler.
func NewServer(cfg Config, sheets *sheet.Collection, api http.Handler) (*Server, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"modeLabel": func(m string) string {
			if m == string(sheet.ModeLot) {
				return "Lot numbers"
			}
			return "Serial numbers"
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.Default(),
		sheets:    sheets,
		api:       api,
		templates: templates,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/upload", s.handleUploadPage)
	s.router.GET("/sheets/:index/edit", s.handleEditPage)
	s.router.GET("/help", s.handleHelp)

	s.router.GET("/static/*filepath", func(c *gin.Context) {
		c.FileFromFS("static/"+c.Param("filepath"), http.FS(embeddedFiles))
	})

	s.router.Any("/api/*path", gin.WrapH(s.api))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting SerialSheets UI on http://localhost%s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// pageState is the data shared by every page: the current sheet summary and
// the option lists for the form selects.
func (s *Server) pageState() gin.H {
	return gin.H{
		"Sheets": s.sheets.Summary(),
		"Count":  s.sheets.Len(),
		"Modes":  []string{string(sheet.ModeSerial), string(sheet.ModeLot)},
		"Groupings": []string{
			string(pipeline.GroupPart),
			string(pipeline.GroupPartInvoice),
		},
		"Policies": []string{
			string(pipeline.FlagDuplicates),
			string(pipeline.DropDuplicates),
		},
	}
}
