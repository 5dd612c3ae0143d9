// Package report renders a calculation result for people: plain text for the
// terminal, Markdown, HTML and JSON.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/rupiah"
)

type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	HTML     Format = "html"
	JSON     Format = "json"
)

var Formats = []Format{Text, Markdown, HTML, JSON}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", errors.Errorf("report: unknown format %q", s)
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Render writes res to w in format f.
func Render(w io.Writer, res *model.InheritanceResult, f Format) error {
	var out []byte
	switch f {
	case Text:
		out = []byte(RenderText(res))
	case Markdown:
		out = []byte(RenderMarkdown(res))
	case HTML:
		var buf bytes.Buffer
		if err := md.Convert([]byte(RenderMarkdown(res)), &buf); err != nil {
			return errors.Wrap(err, "report: convert markdown")
		}
		out = buf.Bytes()
	case JSON:
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.Wrap(err, "report: encode json")
		}
		out = append(b, '\n')
	default:
		return errors.Errorf("report: unknown format %q", f)
	}
	_, err := w.Write(out)
	return err
}

func percent(p float64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("%.2f%%", p)
}

func lawName(l model.LawSystem) string {
	switch l {
	case model.LawIslam:
		return "Hukum Islam (faraid)"
	case model.LawPerdata:
		return "Hukum Perdata (KUH Perdata)"
	}
	return string(l)
}

func heirName(s model.HeirShare, deceased model.Gender) string {
	label := s.Heir.Relation.Label(model.ExpectedGender(s.Heir.Relation, deceased))
	name := label
	if s.Heir.Name != "" {
		name = s.Heir.Name + " (" + label + ")"
	}
	if s.Heir.Count > 1 {
		name += fmt.Sprintf(" x%d", s.Heir.Count)
	}
	return name
}

func RenderText(res *model.InheritanceResult) string {
	var b strings.Builder
	in := res.Input
	fmt.Fprintf(&b, "Pewaris      : %s\n", in.Deceased.Name)
	fmt.Fprintf(&b, "Sistem hukum : %s\n", lawName(in.LawSystem))
	fmt.Fprintf(&b, "Total harta  : %s\n", rupiah.Format(in.TotalEstate))
	fmt.Fprintf(&b, "Harta bersih : %s\n\n", rupiah.Format(res.NetEstate))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Ahli waris\tBagian\tPersentase\tJumlah\tPer orang")
	for _, s := range res.Shares {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", heirName(s, in.Deceased.Gender), s.Fraction, percent(s.Percentage), rupiah.Format(s.Amount), rupiah.Format(s.AmountPerHeir))
	}
	tw.Flush()

	if res.Residue > 0 {
		fmt.Fprintf(&b, "\nSisa harta tidak terbagi: %s\n", rupiah.Format(res.Residue))
	}
	writeList(&b, "Keterangan", "- ", res.Explanations)
	for _, s := range res.Shares {
		if s.Explanation != "" {
			fmt.Fprintf(&b, "- %s: %s\n", heirName(s, in.Deceased.Gender), s.Explanation)
		}
	}
	writeList(&b, "Peringatan", "! ", res.Warnings)
	return b.String()
}

func writeList(b *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		b.WriteString(bullet + it + "\n")
	}
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func RenderMarkdown(res *model.InheritanceResult) string {
	var b strings.Builder
	in := res.Input
	fmt.Fprintf(&b, "# Perhitungan Waris: %s\n\n", cell(in.Deceased.Name))
	fmt.Fprintf(&b, "- **Sistem hukum:** %s\n", lawName(in.LawSystem))
	fmt.Fprintf(&b, "- **Total harta:** %s\n", rupiah.Format(in.TotalEstate))
	fmt.Fprintf(&b, "- **Utang:** %s\n", rupiah.Format(in.Debts))
	fmt.Fprintf(&b, "- **Biaya pemakaman:** %s\n", rupiah.Format(in.FuneralCosts))
	fmt.Fprintf(&b, "- **Wasiat:** %s\n", rupiah.Format(in.Wasiat))
	fmt.Fprintf(&b, "- **Harta bersih:** %s\n\n", rupiah.Format(res.NetEstate))

	b.WriteString("| Ahli waris | Bagian | Persentase | Jumlah | Per orang | Keterangan |\n")
	b.WriteString("|---|---|---:|---:|---:|---|\n")
	for _, s := range res.Shares {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(heirName(s, in.Deceased.Gender)), s.Fraction, percent(s.Percentage),
			rupiah.Format(s.Amount), rupiah.Format(s.AmountPerHeir), cell(s.Explanation))
	}
	if res.Residue > 0 {
		fmt.Fprintf(&b, "\n**Sisa harta tidak terbagi:** %s\n", rupiah.Format(res.Residue))
	}
	if len(res.Explanations) > 0 {
		b.WriteString("\n## Keterangan\n\n")
		for _, e := range res.Explanations {
			b.WriteString("- " + e + "\n")
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n## Peringatan\n\n")
		for _, w := range res.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
