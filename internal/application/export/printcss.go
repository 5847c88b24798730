package export

import (
	"html"
	"strings"
)

const printCSS = `@page { size: A4; margin: 15mm 12mm; }
* { box-sizing: border-box; }
@import url('https://fonts.googleapis.com/css2?family=Roboto+Condensed:wght@300;400;500;600;700;800;900&display=swap');
body {
  margin: 0; padding: 20px;
  font-family: 'Roboto Condensed', sans-serif; font-size: 16px; line-height: 1.6;
  color: #1a1a1a; background: #f9f9f9;
  print-color-adjust: exact; -webkit-print-color-adjust: exact;
}
.card {
  background: #ffffff !important; border: none !important; border-radius: 12px !important;
  padding: 16px !important; margin-bottom: 16px !important;
  box-shadow: 0px 0px 20px 0px rgba(0, 0, 0, 0.05) !important;
  page-break-inside: avoid !important;
}
.grid { display: grid !important; gap: 16px !important; margin: 16px 0 !important; page-break-inside: avoid !important; }
.grid-cols-2 { grid-template-columns: repeat(2, 1fr) !important; }
.grid-cols-3 { grid-template-columns: repeat(3, 1fr) !important; }
.card img { width: 100% !important; height: 192px !important; object-fit: cover !important; border-radius: 8px !important; margin-bottom: 12px !important; }
h1 { font-size: 2rem; font-weight: 700; margin: 24px 0 16px 0; color: #0a0e13; page-break-after: avoid; }
h2 { font-size: 1.5rem; font-weight: 800; margin: 20px 0 12px 0; color: #0a0e13; page-break-after: avoid; }
h3, h4 { font-size: 1.25rem; font-weight: 600; margin: 16px 0 10px 0; color: #0a0e13; page-break-after: avoid; }
p { margin-bottom: 12px; color: #374151; line-height: 1.7; }
strong { font-weight: 700; color: #0a0e13; }
ul, ol { margin: 12px 0; padding-left: 24px; color: #374151; }
li { margin-bottom: 6px; line-height: 1.6; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; page-break-inside: avoid; }
th { background-color: #f3f4f6; font-weight: 600; text-align: left; padding: 10px 12px; border: 1px solid #d1d5db; color: #0a0e13; }
td { padding: 8px 12px; border: 1px solid #d1d5db; color: #374151; }
tr:nth-child(even) { background-color: #f9fafb; }
.font-semibold { font-weight: 600 !important; }
.font-bold { font-weight: 700 !important; }
.text-sm { font-size: 0.875rem !important; }
.text-xl { font-size: 1.25rem !important; }
.text-2xl { font-size: 1.5rem !important; }
.w-full { width: 100% !important; }
.object-cover { object-fit: cover !important; }
.rounded { border-radius: 0.375rem !important; }
@media print {
  * { print-color-adjust: exact; -webkit-print-color-adjust: exact; }
  h1, h2, h3, h4, h5, h6 { page-break-after: avoid; }
  .card, .grid, table { page-break-inside: avoid; }
}`

// PrintDocument wraps report HTML in a standalone page with the print styles
func PrintDocument(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("<style>\n" + printCSS + "\n</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
