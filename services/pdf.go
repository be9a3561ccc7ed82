package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"instalapro-backend/models"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// BuildReceiptPDF renders the completion receipt for a service: job and
// client identity, the work performed, the fee totals, evidence photos
// and the signature block.
func BuildReceiptPDF(service *models.Service, in ReceiptInput) ([]byte, error) {
	cfg := marotocfg.NewBuilder().
		WithPageSize(pagesize.A4).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, fmt.Sprintf("Installation Receipt - Folio %d", service.Folio),
		props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}))
	m.AddRows(line.NewRow(4))

	if service.Store != nil {
		m.AddRow(6, text.NewCol(12, fmt.Sprintf("Store: %s (#%d)  %s",
			service.Store.Name, service.Store.NumStore, service.Store.Phone), props.Text{Size: 10}))
	}
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Client: %s  %s", service.Client, service.ClientPhone),
		props.Text{Size: 10}))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Address: %s", service.Address), props.Text{Size: 10}))
	if service.Installer != nil {
		m.AddRow(6, text.NewCol(12, fmt.Sprintf("Installer: %s (#%d)", service.Installer.Name,
			service.Installer.Number), props.Text{Size: 10}))
	}
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Performed by: %s    From %s to %s",
		in.InstallerName, in.StartTime, in.EndTime), props.Text{Size: 10}))
	m.AddRows(line.NewRow(4))

	m.AddRow(8,
		text.NewCol(4, "Product", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, "Installed in", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, "Specification", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, "Serial", props.Text{Style: fontstyle.Bold, Size: 10}),
	)
	for _, product := range in.InstalledProduct {
		m.AddRow(6,
			text.NewCol(4, product.InstalledProduct, props.Text{Size: 9}),
			text.NewCol(3, product.InstalledIn, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", product.Quantity), props.Text{Size: 9}),
			text.NewCol(2, product.Specification, props.Text{Size: 9}),
			text.NewCol(2, product.SerialNumber, props.Text{Size: 9}),
		)
	}
	m.AddRows(line.NewRow(4))

	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Total: $%.2f (subtotal $%.2f + IVA $%.2f)",
		service.Totals.InstallationServiceFee,
		service.Subtotals.InstallationServiceFee,
		service.IVA.InstallationServiceFee), props.Text{Size: 10, Style: fontstyle.Bold}))
	m.AddRow(6, text.NewCol(12, "Recommendations: "+in.Recommendations, props.Text{Size: 9}))
	m.AddRow(6, text.NewCol(12, "Client comments: "+in.ClientComments, props.Text{Size: 9}))

	for _, img := range in.Images {
		data, ext, ok := decodeDataURI(img)
		if ok {
			m.AddRow(45, image.NewFromBytesCol(6, data, ext, props.Rect{Center: true}))
		}
	}

	m.AddRows(line.NewRow(4))
	signer := service.Client
	if in.IsClientAbsent {
		signer = fmt.Sprintf("%s (%s)", in.SecondaryClientName, in.RelationshipWithClient)
	}
	if data, ext, ok := decodeDataURI(in.ClientSignature); ok {
		m.AddRow(30, image.NewFromBytesCol(4, data, ext, props.Rect{Center: true}))
	}
	m.AddRow(6, text.NewCol(12, "Signed by: "+signer, props.Text{Size: 10, Align: align.Center}))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// decodeDataURI splits a data URI ("data:image/png;base64,...") into
// its decoded image bytes and extension.
func decodeDataURI(uri string) ([]byte, extension.Type, bool) {
	ext := extension.Png
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		parts := strings.SplitN(uri, ",", 2)
		if len(parts) != 2 {
			return nil, ext, false
		}
		if strings.Contains(parts[0], "jpeg") || strings.Contains(parts[0], "jpg") {
			ext = extension.Jpg
		}
		payload = parts[1]
	}
	if payload == "" {
		return nil, ext, false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ext, false
	}
	return raw, ext, true
}
