package docuseal

import (
	"strings"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/models"
)

// loeTemplate is the letter-of-engagement document. Bracketed tokens are
// replaced by literal search/replace in RenderTemplate; any token without a
// value stays in the document so a reviewer can spot the gap before sending.
const loeTemplate = `<html>
<body>
<h1>Letter of Engagement</h1>
<p>Date: [Date]</p>

<p>Dear [Client Name],</p>

<p>Thank you for engaging Chinook Valuation Services to complete an appraisal
of the property at <strong>[Property Address]</strong>.</p>

<h2>Engagement Terms</h2>
<table>
<tr><td>Report Type</td><td>[Report Type]</td></tr>
<tr><td>Appraisal Fee</td><td>[Fee Amount]</td></tr>
<tr><td>Retainer</td><td>[Retainer Amount]</td></tr>
<tr><td>Delivery Date</td><td>[Delivery Date]</td></tr>
<tr><td>Payment Terms</td><td>[Payment Terms]</td></tr>
</table>

<h2>Scope of Work</h2>
<p>[Scope of Work]</p>

<p>Please sign below to confirm your acceptance of these terms.</p>

<p>[Client Name]<br/>
[Client Company]</p>
</body>
</html>`

// RenderTemplate substitutes every populated job and LOE field into the
// document. No templating engine: this is literal token replacement, and
// tokens with no source value are left intact.
func RenderTemplate(job *models.JobSubmission, loe *models.LOEDetails) string {
	pairs := []string{
		"[Date]", time.Now().Format("January 2, 2006"),
		"[Client Name]", strings.TrimSpace(job.ClientFirstName + " " + job.ClientLastName),
		"[Property Address]", job.PropertyAddress,
	}
	pairs = appendPair(pairs, "[Client Company]", job.ClientCompany)

	if loe != nil {
		pairs = appendPair(pairs, "[Report Type]", loe.ReportType)
		pairs = appendPair(pairs, "[Fee Amount]", loe.FeeAmount)
		pairs = appendPair(pairs, "[Retainer Amount]", loe.RetainerAmount)
		pairs = appendPair(pairs, "[Payment Terms]", loe.PaymentTerms)
		pairs = appendPair(pairs, "[Scope of Work]", loe.ScopeOfWork)
		if loe.DeliveryDate != nil {
			pairs = append(pairs, "[Delivery Date]", loe.DeliveryDate.Format("January 2, 2006"))
		}
	}

	return strings.NewReplacer(pairs...).Replace(loeTemplate)
}

func appendPair(pairs []string, token string, value *string) []string {
	if value == nil || *value == "" {
		return pairs
	}
	return append(pairs, token, *value)
}
