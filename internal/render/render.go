// Package render produces the printable sale receipt and budget documents.
package render

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gesso-pos/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

type DocumentRenderer interface {
	RenderReceipt(w io.Writer, data ReceiptData) error
	RenderBudget(w io.Writer, data BudgetData) error
}

type ReceiptData struct {
	Company model.CompanyProfile
	Sale    *model.Sale
}

type BudgetData struct {
	Company model.CompanyProfile
	Budget  *model.Budget
}

// HTMLRenderer renders the embedded templates with the fiber html engine.
type HTMLRenderer struct {
	engine *html.Engine
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("brl", FormatBRL)
	engine.AddFunc("date", FormatDate)
	engine.AddFunc("datetime", func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	})
	engine.AddFunc("optdate", func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return FormatDate(*t)
	})
	engine.AddFunc("upper", strings.ToUpper)
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load document templates: %w", err)
	}
	return &HTMLRenderer{engine: engine}, nil
}

func (r *HTMLRenderer) RenderReceipt(w io.Writer, data ReceiptData) error {
	if data.Sale == nil {
		return fmt.Errorf("render receipt: sale is required")
	}
	return r.engine.Render(w, "receipt", data)
}

func (r *HTMLRenderer) RenderBudget(w io.Writer, data BudgetData) error {
	if data.Budget == nil {
		return fmt.Errorf("render budget: budget is required")
	}
	return r.engine.Render(w, "budget", data)
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount as R$ 1.234,56.
func FormatBRL(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "R$ " + printer.Sprintf("%.2f", d.InexactFloat64())
}

func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
