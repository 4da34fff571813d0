// Package export writes the sales report workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gesso-pos/internal/model"
)

const (
	SheetSales   = "Vendas Detalhadas"
	SheetMonthly = "Resumo Mensal"
	SheetTop     = "Top Produtos"
	SheetStock   = "Estoque Atual"
)

type MonthRow struct {
	Month     string
	SaleCount int64
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
}

type ProductRow struct {
	Description string
	Quantity    int64
	Revenue     decimal.Decimal
}

// Report is everything the workbook needs; callers fetch it, this package only lays it out.
type Report struct {
	Sales    []model.Sale
	Monthly  []MonthRow
	Top      []ProductRow
	Products []model.Product
}

var monthNames = []string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

// MonthName is the pt-BR name of month m (1-12).
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

func FileName(now time.Time) string {
	return fmt.Sprintf("Relatorio_Vendas_%s.xlsx", now.Format("02-01-2006"))
}

func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	sheets := []struct {
		name    string
		headers []interface{}
		rows    [][]interface{}
		money   []string
	}{
		{SheetSales, []interface{}{"Data", "Número", "Cliente", "Total", "Lucro", "Método de Pagamento", "Status", "Produtos"}, salesRows(r.Sales), []string{"D", "E"}},
		{SheetMonthly, []interface{}{"Mês", "Vendas", "Faturamento", "Lucro"}, monthlyRows(r.Monthly), []string{"C", "D"}},
		{SheetTop, []interface{}{"Produto", "Quantidade Vendida", "Faturamento"}, topRows(r.Top), []string{"C"}},
		{SheetStock, []interface{}{"Produto", "Categoria", "Estoque Atual", "Preço de Venda", "Custo", "Valor Total do Estoque"}, stockRows(r.Products), []string{"D", "E", "F"}},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}

		if err := f.SetSheetRow(s.name, "A1", &s.headers); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(s.headers), 1)
		if err := f.SetCellStyle(s.name, "A1", last, header); err != nil {
			return err
		}

		for n, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, n+2)
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("%s row %d: %w", s.name, n+2, err)
			}
		}
		if len(s.rows) > 0 {
			for _, col := range s.money {
				if err := f.SetCellStyle(s.name, col+"2", fmt.Sprintf("%s%d", col, len(s.rows)+1), money); err != nil {
					return err
				}
			}
		}

		lastCol, _ := excelize.ColumnNumberToName(len(s.headers))
		if err := f.SetColWidth(s.name, "A", lastCol, 18); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func salesRows(sales []model.Sale) [][]interface{} {
	rows := make([][]interface{}, 0, len(sales))
	for _, s := range sales {
		products := make([]string, len(s.Items))
		for i, it := range s.Items {
			products[i] = fmt.Sprintf("%s (%dx)", it.Description, it.Quantity)
		}
		customer := s.CustomerName
		if customer == "" {
			customer = model.AnonymousCustomerName
		}
		rows = append(rows, []interface{}{
			s.Date.Format("02/01/2006"),
			s.DisplayNumber(),
			customer,
			s.Total.InexactFloat64(),
			s.Profit.InexactFloat64(),
			s.PaymentMethod.Label(),
			string(s.Status),
			strings.Join(products, ", "),
		})
	}
	return rows
}

func monthlyRows(months []MonthRow) [][]interface{} {
	rows := make([][]interface{}, 0, len(months))
	for _, m := range months {
		rows = append(rows, []interface{}{m.Month, m.SaleCount, m.Revenue.InexactFloat64(), m.Profit.InexactFloat64()})
	}
	return rows
}

func topRows(top []ProductRow) [][]interface{} {
	rows := make([][]interface{}, 0, len(top))
	for _, p := range top {
		rows = append(rows, []interface{}{p.Description, p.Quantity, p.Revenue.InexactFloat64()})
	}
	return rows
}

func stockRows(products []model.Product) [][]interface{} {
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{
			p.Name,
			p.Category,
			p.Stock,
			p.Price.InexactFloat64(),
			p.Cost.InexactFloat64(),
			p.StockValue().InexactFloat64(),
		})
	}
	return rows
}
