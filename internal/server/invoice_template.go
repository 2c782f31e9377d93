package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
)

func (s *Server) ListInvoiceTemplates(c *gin.Context) {
	resp := s.templateSvc.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceTemplate(c *gin.Context) {
	key := strings.TrimSpace(c.Param("type"))

	resp, err := s.templateSvc.Get(c.Request.Context(), key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PreviewInvoiceTemplate renders the built-in sample invoice. Unknown template
// types fall back to the default variant, like every other render path.
func (s *Server) PreviewInvoiceTemplate(c *gin.Context) {
	templateType := strings.TrimSpace(c.Param("type"))
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		format = string(invoicedomain.FormatHTML)
	}
	c.Set(renderFormatKey, format)

	env := s.invoiceSvc.Preview(c.Request.Context(), templateType, format)
	if env.Success {
		if data, ok := env.Data.(invoicedomain.PreviewData); ok {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(data.HTML))
			return
		}
	}

	c.JSON(envelopeStatus(env), env)
}
