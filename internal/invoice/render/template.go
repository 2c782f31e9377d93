package render

// PrintStyles is appended to the document for the print profile and returned
// alongside print output.
const PrintStyles = `@page { size: A4 portrait; margin: 20mm; }
    @media print {
      body { background: #ffffff; padding: 0; }
      .invoice-card { box-shadow: none; padding: 0; max-width: none; }
      tr, .totals, .variant-legal, .legal { page-break-inside: avoid; }
      thead { display: table-header-group; }
    }`

const invoiceHTMLTemplate = `{{define "header"}}
    <div class="header">
      <div class="header-left">
        <h1>{{label "invoice"}}</h1>
        <div class="label">{{label "invoiceNumber"}}</div>
        <div class="value">{{.Data.Invoice.Number}}</div>
      </div>
      <div class="header-right">{{.Data.Company.Name}}</div>
    </div>
{{end}}
{{define "party"}}
        <div class="value">
          <strong>{{.Name}}</strong><br>
          {{.Address}}<br>
          {{.PostalCode}} {{.City}}<br>
          {{.Country}}
          {{if .VATNumber}}<br>{{label "vatNumber"}} : {{.VATNumber}}{{end}}
          {{if .SIRET}}<br>{{label "siret"}} : {{.SIRET}}{{end}}
          {{if .Email}}<br>{{.Email}}{{end}}
          {{if .Phone}}<br>{{.Phone}}{{end}}
        </div>
{{end}}
{{define "parties"}}
    <div class="meta-grid">
      <div class="col">
        <div class="label">{{label "seller"}}</div>
        {{template "party" .Data.Company}}
      </div>
      <div class="col">
        <div class="label">{{label "client"}}</div>
        {{template "party" .Data.Client.Company}}
      </div>
    </div>
{{end}}
{{define "meta"}}
    <div class="meta-grid">
      <div class="col">
        <div class="label">{{label "date"}}</div>
        <div class="value">{{isoDate .Data.Invoice.Date}}</div>
      </div>
      <div class="col">
        <div class="label">{{label "dueDate"}}</div>
        <div class="value">{{isoDate .Data.Invoice.DueDate}}</div>
      </div>
      <div class="col">
        <div class="label">{{label "currency"}}</div>
        <div class="value">{{.Data.Invoice.Currency}}</div>
      </div>
    </div>
{{end}}
{{define "items"}}
    <table>
      <thead>
        <tr>
          <th style="width: 44%;">{{label "description"}}</th>
          <th class="td-right">{{label "quantity"}}</th>
          <th class="td-right">{{label "unitPrice"}}</th>
          <th class="td-right">{{label "tvaRate"}}</th>
          <th class="td-right">{{label "totalPrice"}}</th>
        </tr>
      </thead>
      <tbody>
        {{range .Data.Items}}
        <tr>
          <td><div class="item-title">{{.Description}}</div></td>
          <td class="td-right">{{quantity .Quantity}} {{.Unit}}</td>
          <td class="td-right">{{money .UnitPrice $.Data.Invoice.Currency}}</td>
          <td class="td-right">{{itemRate $.Variant .TVARate}}</td>
          <td class="td-right">{{money .TotalPrice $.Data.Invoice.Currency}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
{{end}}
{{define "totals"}}
    <div class="totals">
      <div class="total-row"><span>{{label "subtotal"}}: {{money .Data.Totals.Subtotal .Data.Invoice.Currency}}</span></div>
      {{range .VATLines}}
      <div class="total-row vat-line"><span>{{.}}</span></div>
      {{end}}
      {{if .Data.Totals.Discount}}
      <div class="total-row"><span>{{label "discount"}}: -{{money .Data.Totals.Discount .Data.Invoice.Currency}}</span></div>
      {{end}}
      <div class="total-row total-final"><span>{{label "total"}}: {{money .Data.Totals.Total .Data.Invoice.Currency}}</span></div>
    </div>
{{end}}
{{define "variant-legal"}}
    {{with .VariantBlock}}
    <div class="variant-legal">
      <div class="label">{{.Title}}</div>
      {{range .Clauses}}<p>{{.}}</p>
      {{end}}
    </div>
    {{end}}
{{end}}
{{define "legal"}}
    <div class="legal">
      {{if .Data.Invoice.PaymentTerms}}<p>{{label "paymentTerms"}} : {{.Data.Invoice.PaymentTerms}}</p>{{end}}
      {{if .Data.Invoice.PaymentMethod}}<p>{{label "paymentMethod"}} : {{.Data.Invoice.PaymentMethod}}</p>{{end}}
      {{if .Data.Invoice.Notes}}<p>{{.Data.Invoice.Notes}}</p>{{end}}
      {{if .Data.LegalNotes}}
      <div class="label">{{label "legalNotes"}}</div>
      {{range .Data.LegalNotes}}<p>{{.}}</p>
      {{end}}
      {{end}}
    </div>
{{end}}
{{define "footer"}}
    <div class="footer">
      {{with .Data.Company}}
      <p>{{.Name}}{{if .LegalForm}} - {{.LegalForm}}{{end}}{{if .Capital}} au capital de {{.Capital}}{{end}}{{if .RCS}} - {{label "rcs"}} {{.RCS}}{{end}}{{if .SIREN}} - {{label "siren"}} {{.SIREN}}{{end}}</p>
      {{if .IBAN}}<p>{{label "bankDetails"}} : {{if .BankName}}{{.BankName}} - {{end}}{{label "iban"}} {{.IBAN}}{{if .BIC}} - {{label "bic"}} {{.BIC}}{{end}}</p>{{end}}
      {{if .InsuranceName}}<p>{{label "insurance"}} : {{.InsuranceName}}{{if .InsurancePolicy}} ({{label "insurancePolicy"}} {{.InsurancePolicy}}){{end}}</p>{{end}}
      {{end}}
      {{if .FooterNotes}}<p>{{.FooterNotes}}</p>{{end}}
      <p class="generated">{{label "generatedAt"}} {{timestamp .GeneratedAt}}</p>
    </div>
{{end}}<!doctype html>
<html lang="fr">
<head>
  <meta charset="utf-8" />
  <title>{{label "invoice"}} {{.Data.Invoice.Number}}</title>
  <style>
    :root {
      --primary: {{.Style.PrimaryColor}};
      --font: {{.Style.FontFamily}}, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
    }
    .invoice-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
    }
    .header { display: flex; justify-content: space-between; margin-bottom: 40px; }
    .header-left h1 { margin: 0; font-size: 24px; color: var(--primary); }
    .header-right { text-align: right; font-weight: 600; font-size: 16px; }
    .meta-grid { display: flex; justify-content: space-between; margin-bottom: 32px; }
    .col { flex: 1; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin: 12px 0 6px;
      font-weight: 600;
    }
    .value { font-size: 14px; line-height: 1.5; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th {
      text-align: left;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 2px solid var(--primary);
      padding: 10px 0;
    }
    td { padding: 12px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; vertical-align: top; }
    .td-right { text-align: right; }
    .item-title { font-weight: 600; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row { width: 280px; padding: 6px 0; font-size: 14px; text-align: right; }
    .total-final { border-top: 1px solid #e3e8ee; margin-top: 10px; padding-top: 10px; font-weight: 700; font-size: 16px; }
    .variant-legal { margin-top: 32px; padding: 12px 16px; border-left: 3px solid var(--primary); background: #f3f5f9; font-size: 13px; }
    .legal { margin-top: 24px; font-size: 12px; color: #4f566b; }
    .footer { margin-top: 40px; font-size: 11px; color: #8792a2; border-top: 1px solid #e3e8ee; padding-top: 16px; }
    {{if .Print}}{{.PrintCSS}}{{end}}
  </style>
</head>
<body data-regime="{{.Regime}}">
  <div class="invoice-card">
{{template "header" .}}
{{template "parties" .}}
{{template "meta" .}}
{{template "items" .}}
{{template "totals" .}}
{{template "variant-legal" .}}
{{template "legal" .}}
{{template "footer" .}}
  </div>
</body>
</html>
`
