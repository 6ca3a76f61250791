// Package document renders the finalization record for an occurrence as a
// self-contained HTML page suitable for printing or saving as PDF.
package document

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ContentType is the MIME type of rendered documents.
const ContentType = "text/html; charset=utf-8"

// Renderer produces the occurrence record document.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewRenderer parses the embedded template. The template is static, so a
// parse failure is a programming error.
func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("occurrence").Parse(documentTemplate)),
		now:  time.Now,
	}
}

type templateData struct {
	Protocol          string
	GeneratedAt       string
	ReporterName      string
	ReporterPhone     string
	ReporterBirthdate string
	Category          string
	RegisteredAt      string
	Reason            string
	AdminNote         string
	AISummary         string
	AIClassification  string
	AIConclusion      string
	HasAnalysis       bool
}

// Render produces the HTML document for an occurrence under the given
// protocol number. User-supplied fields are escaped by html/template.
func (r *Renderer) Render(occ *domain.Occurrence, protocol string) ([]byte, error) {
	data := templateData{
		Protocol:          protocol,
		GeneratedAt:       r.now().UTC().Format("2006-01-02 15:04 MST"),
		ReporterName:      occ.ReporterName,
		ReporterPhone:     occ.ReporterPhone,
		ReporterBirthdate: occ.ReporterBirthdate.Format("2006-01-02"),
		Category:          occ.Category.String(),
		RegisteredAt:      occ.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
		Reason:            occ.Reason,
		AISummary:         occ.AISummary,
		AIClassification:  occ.AIClassification,
		AIConclusion:      occ.AIConclusion,
	}
	if occ.AdminNote != nil {
		data.AdminNote = *occ.AdminNote
	}
	data.HasAnalysis = data.AISummary != "" || data.AIClassification != "" || data.AIConclusion != ""

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("document: render: %w", err)
	}
	return buf.Bytes(), nil
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Protocol}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: 'Helvetica', 'Arial', sans-serif;
      padding: 40px;
      color: #1a1a2e;
      line-height: 1.6;
    }
    .header {
      text-align: center;
      border-bottom: 3px solid #4f46e5;
      padding-bottom: 20px;
      margin-bottom: 30px;
    }
    .header h1 { color: #4f46e5; font-size: 28px; margin-bottom: 10px; }
    .protocol { font-size: 18px; color: #666; font-weight: bold; }
    .section { margin-bottom: 25px; }
    .section-title {
      font-size: 14px;
      color: #4f46e5;
      text-transform: uppercase;
      letter-spacing: 1px;
      margin-bottom: 10px;
      border-bottom: 1px solid #e5e7eb;
      padding-bottom: 5px;
    }
    .field { margin-bottom: 8px; }
    .field-label { font-weight: bold; color: #374151; }
    .field-value { color: #1f2937; }
    .content-box {
      background: #f9fafb;
      padding: 15px;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      margin-top: 5px;
    }
    .badge {
      display: inline-block;
      padding: 4px 12px;
      background: #4f46e5;
      color: white;
      border-radius: 20px;
      font-size: 12px;
      font-weight: bold;
    }
    .ai-section {
      background: #eef2ff;
      border: 1px solid #c7d2fe;
      border-radius: 12px;
      padding: 20px;
      margin-top: 10px;
    }
    .ai-field { margin-bottom: 12px; }
    .ai-field-label {
      font-size: 11px;
      color: #6366f1;
      text-transform: uppercase;
      letter-spacing: 0.5px;
      margin-bottom: 4px;
    }
    .footer {
      margin-top: 40px;
      padding-top: 20px;
      border-top: 1px solid #e5e7eb;
      text-align: center;
      font-size: 12px;
      color: #9ca3af;
    }
  </style>
</head>
<body>
  <div class="header">
    <h1>OCCURRENCE RECORD</h1>
    <p class="protocol">{{.Protocol}}</p>
    <p style="margin-top: 10px; color: #666;">Generated at: {{.GeneratedAt}}</p>
  </div>

  <div class="section">
    <div class="section-title">Reporter</div>
    <div class="field">
      <span class="field-label">Name:</span>
      <span class="field-value">{{.ReporterName}}</span>
    </div>
    <div class="field">
      <span class="field-label">Phone:</span>
      <span class="field-value">{{.ReporterPhone}}</span>
    </div>
    <div class="field">
      <span class="field-label">Birthdate:</span>
      <span class="field-value">{{.ReporterBirthdate}}</span>
    </div>
  </div>

  <div class="section">
    <div class="section-title">Occurrence Details</div>
    <div class="field">
      <span class="field-label">Category:</span>
      <span class="badge">{{.Category}}</span>
    </div>
    <div class="field">
      <span class="field-label">Registered at:</span>
      <span class="field-value">{{.RegisteredAt}}</span>
    </div>
    <div class="field">
      <span class="field-label">Reason:</span>
      <div class="content-box">{{.Reason}}</div>
    </div>
  </div>

  {{if .AdminNote}}
  <div class="section">
    <div class="section-title">Administrator Note</div>
    <div class="content-box">{{.AdminNote}}</div>
  </div>
  {{end}}

  {{if .HasAnalysis}}
  <div class="section">
    <div class="section-title">AI Analysis</div>
    <div class="ai-section">
      {{if .AIClassification}}
      <div class="ai-field">
        <div class="ai-field-label">Classification</div>
        <div><span class="badge">{{.AIClassification}}</span></div>
      </div>
      {{end}}
      {{if .AISummary}}
      <div class="ai-field">
        <div class="ai-field-label">Summary</div>
        <div>{{.AISummary}}</div>
      </div>
      {{end}}
      {{if .AIConclusion}}
      <div class="ai-field">
        <div class="ai-field-label">Conclusion</div>
        <div>{{.AIConclusion}}</div>
      </div>
      {{end}}
    </div>
  </div>
  {{end}}

  <div class="footer">
    <p><strong>Occurrence Management System</strong></p>
    <p>This document serves as proof of occurrence registration and analysis.</p>
    <p style="margin-top: 10px;">The final decision rests with the administrator.</p>
  </div>
</body>
</html>
`
