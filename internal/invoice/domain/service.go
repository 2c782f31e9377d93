package domain

import (
	"context"
	"time"
)

// ValidationErrorLabel is the error string returned for rejected input.
// Existing callers match on it, so it is kept verbatim.
const ValidationErrorLabel = "数据验证失败"

// RenderRequest is the primary entry point payload.
type RenderRequest struct {
	Format       string   `json:"format"`
	InvoiceData  RawInput `json:"invoiceData"`
	UserData     RawInput `json:"userData"`
	ClientData   RawInput `json:"clientData"`
	TemplateType string   `json:"templateType"`
}

// BatchRequest renders the same input in several formats.
type BatchRequest struct {
	InvoiceData  RawInput `json:"invoiceData"`
	UserData     RawInput `json:"userData"`
	ClientData   RawInput `json:"clientData"`
	TemplateType string   `json:"templateType"`
	Formats      []string `json:"formats"`
}

// Metadata describes a rendered document.
type Metadata struct {
	TemplateType string    `json:"templateType"`
	Format       string    `json:"format"`
	GeneratedAt  time.Time `json:"generatedAt"`
	DocumentID   string    `json:"documentId,omitempty"`
	Fallback     bool      `json:"fallback,omitempty"`
}

// PDFMetadata is nested inside PDFData.
type PDFMetadata struct {
	Format       string    `json:"format"`
	TemplateType string    `json:"templateType"`
	CreatedAt    time.Time `json:"createdAt"`
	DocumentID   string    `json:"documentId,omitempty"`
	Engine       string    `json:"engine,omitempty"`
	FileName     string    `json:"fileName,omitempty"`
	Fallback     bool      `json:"fallback,omitempty"`
}

type EmailData struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type PDFData struct {
	PDFBuffer []byte      `json:"pdfBuffer"`
	HTML      string      `json:"html"`
	Metadata  PDFMetadata `json:"metadata"`
}

type PrintData struct {
	HTML        string   `json:"html"`
	Format      string   `json:"format"`
	Orientation string   `json:"orientation"`
	Styles      string   `json:"styles"`
	Metadata    Metadata `json:"metadata"`
}

// PreviewData is returned by html previews.
type PreviewData struct {
	HTML string `json:"html"`
}

// Envelope is the uniform result of every public operation. Data holds one of
// EmailData, PDFData, PrintData or PreviewData. Code is one of the Err* sentinel
// names on failure.
type Envelope struct {
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Metadata *Metadata    `json:"metadata,omitempty"`
	Error    string       `json:"error,omitempty"`
	Code     string       `json:"code,omitempty"`
	Message  string       `json:"message,omitempty"`
	Details  []FieldError `json:"details,omitempty"`
}

type BatchError struct {
	Format string `json:"format"`
	Error  string `json:"error"`
}

type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type BatchResult struct {
	Success bool                `json:"success"`
	Results map[string]Envelope `json:"results"`
	Errors  []BatchError        `json:"errors"`
	Summary BatchSummary        `json:"summary"`
}

// Service renders invoices. No method returns an error: failures are reported
// inside the envelope.
type Service interface {
	Render(ctx context.Context, req RenderRequest) Envelope
	RenderBatch(ctx context.Context, req BatchRequest) BatchResult
	Preview(ctx context.Context, templateType, format string) Envelope
}
