package ui

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// handleIndex renders the manual entry page with the current sheet list.
func (s *Server) handleIndex(c *gin.Context) {
	data := s.pageState()
	data["Active"] = "index"
	s.renderTemplate(c, "index.html", data)
}

// handleUploadPage renders the upload and column-mapping page.
func (s *Server) handleUploadPage(c *gin.Context) {
	data := s.pageState()
	data["Active"] = "upload"
	s.renderTemplate(c, "upload.html", data)
}

// handleEditPage renders one sheet as editable text. The save button posts
// the edited text back through the API.
func (s *Server) handleEditPage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	sh, err := s.sheets.At(index)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	values := make([]string, len(sh.Records))
	for i, rec := range sh.Records {
		values[i] = rec.Identity()
	}

	data := s.pageState()
	data["Active"] = "index"
	data["Index"] = index
	data["Name"] = sh.Name
	data["Text"] = strings.Join(values, "\n")
	s.renderTemplate(c, "edit.html", data)
}

// handleHelp renders the embedded help document.
func (s *Server) handleHelp(c *gin.Context) {
	src, err := embeddedFiles.ReadFile("help.md")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "help document unavailable"})
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(src, p, renderer)

	data := s.pageState()
	data["Active"] = "help"
	data["Content"] = template.HTML(rendered)
	s.renderTemplate(c, "help.html", data)
}
