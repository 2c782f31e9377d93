package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/label"
)

const renderFormatKey = "render_format"

func (s *Server) RenderInvoice(c *gin.Context) {
	download, err := queryFlag(c.Query("download"))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req invoicedomain.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.Set(renderFormatKey, strings.ToLower(strings.TrimSpace(req.Format)))

	env := s.invoiceSvc.Render(c.Request.Context(), req)
	if download && env.Success {
		if data, ok := env.Data.(invoicedomain.PDFData); ok {
			writePDF(c, data)
			return
		}
	}

	c.JSON(envelopeStatus(env), env)
}

func (s *Server) RenderInvoiceBatch(c *gin.Context) {
	var req invoicedomain.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.Set(renderFormatKey, "batch")

	resp := s.invoiceSvc.RenderBatch(c.Request.Context(), req)
	c.JSON(batchStatus(resp), resp)
}

func writePDF(c *gin.Context, data invoicedomain.PDFData) {
	name := data.Metadata.FileName
	if name == "" {
		name = "facture.pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data.PDFBuffer)
}

// batchStatus is 200 unless every format failed, in which case the first
// failure decides.
func batchStatus(resp invoicedomain.BatchResult) int {
	if resp.Summary.Successful > 0 || len(resp.Errors) == 0 {
		return http.StatusOK
	}
	first := resp.Errors[0]
	if env, ok := resp.Results[first.Format]; ok {
		return envelopeStatus(env)
	}
	return http.StatusInternalServerError
}

func (s *Server) ListLabels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": label.All()})
}

func (s *Server) GetLabel(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"key": key, "label": label.Get(key)}})
}
