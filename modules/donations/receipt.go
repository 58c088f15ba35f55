package donations

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/collectif/platform/pkg/email"
	"github.com/collectif/platform/pkg/tenant"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 540px; margin: 0 auto;">
  <h2>Thank you{{if .DonorName}}, {{.DonorName}}{{end}}!</h2>
  <p>Your donation of <strong>{{.Amount}}</strong> to {{.TenantName}} has been received.</p>
  <p>Donation reference: {{.Reference}}</p>
  <p>{{.TenantName}}</p>
</body>
</html>`))

func formatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", amount/100, amount%100, currency)
}

func receiptMessage(t *tenant.Tenant, d *Donation) (email.Message, error) {
	var buf bytes.Buffer
	err := receiptTmpl.Execute(&buf, map[string]string{
		"DonorName":  d.DonorName,
		"Amount":     formatAmount(d.Amount, d.Currency),
		"TenantName": t.Name,
		"Reference":  d.ID.String(),
	})
	if err != nil {
		return email.Message{}, fmt.Errorf("render receipt: %w", err)
	}

	return email.Message{
		To:       d.DonorEmail,
		Subject:  fmt.Sprintf("Your donation to %s", t.Name),
		BodyHTML: buf.String(),
		Tag:      "donation-receipt",
	}, nil
}
