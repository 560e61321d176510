package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/firmbooks/firmbooks/internal/ledger"
)

// Renderer turns report data into the HTML handed to Gotenberg.
type Renderer struct {
	trialBalance  *template.Template
	generalLedger *template.Template
	statement     *template.Template
}

// NewRenderer parses the report templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"amount": ledger.FormatAmount,
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006")
		},
	}
	tb, err := template.New("tb").Funcs(funcs).Parse(trialBalanceTemplate)
	if err != nil {
		return nil, err
	}
	gl, err := template.New("gl").Funcs(funcs).Parse(generalLedgerTemplate)
	if err != nil {
		return nil, err
	}
	stmt, err := template.New("stmt").Funcs(funcs).Parse(statementTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{trialBalance: tb, generalLedger: gl, statement: stmt}, nil
}

// TrialBalanceHTML renders the trial balance report.
func (r *Renderer) TrialBalanceHTML(tenantID int64, tb ledger.TrialBalance, at time.Time) (string, error) {
	return render(r.trialBalance, struct {
		TenantID    int64
		GeneratedAt time.Time
		Report      ledger.TrialBalance
	}{tenantID, at, tb})
}

// GeneralLedgerHTML renders the full ledger dump.
func (r *Renderer) GeneralLedgerHTML(tenantID int64, gl ledger.GeneralLedger, at time.Time) (string, error) {
	return render(r.generalLedger, struct {
		TenantID    int64
		GeneratedAt time.Time
		Report      ledger.GeneralLedger
	}{tenantID, at, gl})
}

// StatementHTML renders an account statement.
func (r *Renderer) StatementHTML(tenantID int64, stmt ledger.Statement, at time.Time) (string, error) {
	return render(r.statement, struct {
		TenantID    int64
		GeneratedAt time.Time
		Report      ledger.Statement
	}{tenantID, at, stmt})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reportStyle = `<style>
body { font-family: sans-serif; font-size: 12px; }
h1 { font-size: 16px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; }
.meta { color: #555; margin-bottom: 8px; }
</style>`

const trialBalanceTemplate = `<!DOCTYPE html><html><head>` + reportStyle + `</head><body>
<h1>Trial Balance</h1>
<p class="meta">Firm #{{.TenantID}} &middot; generated {{date .GeneratedAt}}</p>
<table>
<thead><tr><th>Account</th><th>Type</th><th class="num">Debit</th><th class="num">Credit</th><th class="num">Balance</th></tr></thead>
<tbody>
{{range .Report.Accounts}}<tr><td>{{.AccountHead}}</td><td>{{.AccountType}}</td><td class="num">{{amount .TotalDebit}}</td><td class="num">{{amount .TotalCredit}}</td><td class="num">{{amount .Balance}}</td></tr>
{{end}}</tbody>
<tfoot><tr><td colspan="2">Totals</td><td class="num">{{amount .Report.TotalDebit}}</td><td class="num">{{amount .Report.TotalCredit}}</td><td class="num">{{if .Report.Balanced}}BALANCED{{else}}OUT OF BALANCE{{end}}</td></tr></tfoot>
</table>
</body></html>`

const generalLedgerTemplate = `<!DOCTYPE html><html><head>` + reportStyle + `</head><body>
<h1>General Ledger</h1>
<p class="meta">Firm #{{.TenantID}} &middot; generated {{date .GeneratedAt}}</p>
<table>
<thead><tr><th>Account</th><th>Type</th><th class="num">Debit</th><th class="num">Credit</th><th class="num">Balance</th></tr></thead>
<tbody>
{{range .Report.Accounts}}<tr><td>{{.AccountHead}}</td><td>{{.AccountType}}</td><td class="num">{{amount .TotalDebit}}</td><td class="num">{{amount .TotalCredit}}</td><td class="num">{{amount .Balance}}</td></tr>
{{end}}</tbody>
<tfoot><tr><td colspan="2">Totals</td><td class="num">{{amount .Report.TotalDebit}}</td><td class="num">{{amount .Report.TotalCredit}}</td><td></td></tr></tfoot>
</table>
</body></html>`

const statementTemplate = `<!DOCTYPE html><html><head>` + reportStyle + `</head><body>
<h1>Account Statement &mdash; {{.Report.AccountHead}}</h1>
<p class="meta">Firm #{{.TenantID}} &middot; generated {{date .GeneratedAt}} &middot; closing balance {{amount .Report.ClosingBalance}}</p>
<table>
<thead><tr><th>Date</th><th>Voucher</th><th>Narration</th><th class="num">Debit</th><th class="num">Credit</th><th class="num">Running</th></tr></thead>
<tbody>
{{range .Report.Lines}}<tr><td>{{date .TransactionDate}}</td><td>{{.VoucherNo}}</td><td>{{.Narration}}</td><td class="num">{{amount .Debit}}</td><td class="num">{{amount .Credit}}</td><td class="num">{{amount .RunningBalance}}</td></tr>
{{end}}</tbody>
<tfoot><tr><td colspan="3">Totals</td><td class="num">{{amount .Report.TotalDebit}}</td><td class="num">{{amount .Report.TotalCredit}}</td><td class="num">{{amount .Report.ClosingBalance}}</td></tr></tfoot>
</table>
</body></html>`
