// Package assets embeds the fixed invoice layout: the document template,
// its stylesheet and the HTML body of the delivery email.
//
//	templates/
//	├── invoice.html   # rendered by the composer, one per invoice
//	└── email.html     # body of the email carrying the PDF
//	styles/
//	└── invoice.css    # inlined into invoice.html
//
// Assets are compiled into the binary. There is no override directory:
// the layout is fixed on purpose and the rendering engine never fetches
// anything from disk or network.
package assets
