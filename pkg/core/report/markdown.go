package report

import (
	"fmt"
	"strconv"
	"strings"

	"school_budget/pkg/core/aggregate"
	"school_budget/pkg/core/discount"
	"school_budget/pkg/core/performance"
	"school_budget/pkg/core/utils"
)

// RenderMarkdown formats the report as Markdown tables.
func RenderMarkdown(m *ReportModel) string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	h := m.Header

	title := h.SchoolName
	if title == "" {
		title = "Okul Bütçe Raporu"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString(utils.TableHeader(nil, "Alan", "Değer"))
	for _, kv := range [][2]string{
		{"Ülke", h.Country},
		{"Akademik Yıl", h.AcademicYear},
		{"Müdür", h.Principal},
		{"Merkez Temsilcisi", h.HQRepresentative},
		{"Program", h.ProgramType},
		{"Para Birimi", h.CurrencyLabel},
	} {
		b.WriteString(utils.TableRow(kv[0], kv[1]))
	}

	// Tuition
	b.WriteString("\n## Eğitim Ücretleri\n\n")
	b.WriteString(utils.TableHeader([]bool{false, true, true, true, true, true, true, true, true},
		"Kademe", "Eğitim", "Üniforma", "Kitap", "Servis", "Yemek", "Artış %", "Toplam", "Öğrenci"))
	for _, r := range m.Tuition {
		b.WriteString(utils.TableRow(r.Level, money(r.EduFee), money(r.UniformFee), money(r.BookFee),
			money(r.TransportFee), money(r.MealFee), optNumber(r.RaisePct), money(r.Total), strconv.Itoa(r.StudentCount)))
	}

	// Revenues / expenses
	for _, g := range []struct {
		title string
		rows  [][3]string
		total float64
	}{
		{"Gelirler", amountRows(m.Revenues.Rows), m.Revenues.Total},
		{"Giderler", amountRows(m.Expenses.Rows), m.Expenses.Total},
	} {
		fmt.Fprintf(&b, "\n## %s\n\n", g.title)
		b.WriteString(utils.TableHeader([]bool{false, true, true}, "Kalem", "Tutar", "Oran"))
		for _, r := range g.rows {
			b.WriteString(utils.TableRow(r[0], r[1], r[2]))
		}
		b.WriteString(utils.TableRow("**Toplam**", money(g.total), ""))
	}

	// Scholarships and discounts
	for _, g := range []struct {
		title   string
		summary GroupSummary
		rows    []discount.Row
	}{
		{"Burslar", m.ScholarshipSummary, m.Scholarships},
		{"İndirimler", m.DiscountSummary, m.Discounts},
	} {
		fmt.Fprintf(&b, "\n## %s\n\n", g.title)
		b.WriteString(utils.TableHeader([]bool{false, true, true, true}, "Tür", "Planlanan", "Maliyet", "Oran"))
		for _, r := range g.rows {
			b.WriteString(utils.TableRow(r.Name, strconv.Itoa(r.PlannedCount), money(r.Cost), percent(r.Rate)))
		}
		b.WriteString(utils.TableRow("**Toplam**", strconv.Itoa(g.summary.Count), money(g.summary.Cost), percent(g.summary.WeightedRate)))
	}

	// Competitors
	if len(m.Competitors) > 0 {
		b.WriteString("\n## Rakip Okullar\n\n")
		b.WriteString(utils.TableHeader([]bool{false, true, true, true, true}, "Okul", "Okul Öncesi", "İlkokul", "Ortaokul", "Lise"))
		for _, c := range m.Competitors {
			b.WriteString(utils.TableRow(c.Name, optMoney(c.OkulOncesi), optMoney(c.Ilkokul), optMoney(c.Ortaokul), optMoney(c.Lise)))
		}
	}

	// Performance
	b.WriteString("\n## Geçen Yıl Performansı\n\n")
	b.WriteString(utils.TableHeader([]bool{false, true, true, true}, "Gösterge", "Planlanan", "Gerçekleşen", "Sapma"))
	for _, r := range m.Performance {
		format := optMoney
		if r.Metric == performance.MetricStudents {
			format = optCount
		}
		b.WriteString(utils.TableRow(r.Label, format(r.Planned), format(r.Actual), percent(r.Variance)))
	}

	// Parameters
	b.WriteString("\n## Parametreler\n\n")
	b.WriteString(utils.TableHeader([]bool{false, true}, "Parametre", "Değer"))
	for _, p := range m.Parameters {
		b.WriteString(utils.TableRow(p.Label, formatParameter(p)))
	}
	return b.String()
}

// RenderHTML renders the Markdown form of the report to HTML.
func RenderHTML(m *ReportModel) (string, error) {
	md := RenderMarkdown(m)
	if !utils.ValidateMarkdown(md) {
		return "", fmt.Errorf("failed to render report: empty document")
	}
	out, err := utils.MarkdownToHTML(md)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

func amountRows(rows []aggregate.AmountRow) [][3]string {
	out := make([][3]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, [3]string{r.Label, money(r.Amount), percent(r.Ratio)})
	}
	return out
}

func formatParameter(p Parameter) string {
	if p.Value == nil {
		return "-"
	}
	switch p.Unit {
	case UnitPercent:
		return strconv.FormatFloat(*p.Value, 'f', 1, 64) + "%"
	case UnitCount:
		return strconv.FormatFloat(*p.Value, 'f', 0, 64)
	case UnitFlag:
		if *p.Value != 0 {
			return "Evet"
		}
		return "Hayır"
	}
	return money(*p.Value)
}

// money formats with thousands separators and two decimals: 12,345.60.
func money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

func optMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return money(*v)
}

func optNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optCount(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 0, 64)
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}
