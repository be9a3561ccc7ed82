package services

import (
	"bytes"
	"testing"

	"instalapro-backend/models"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// 1x1 PNG, the smallest payload the renderer can embed.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestDecodeDataURI(t *testing.T) {
	data, ext, ok := decodeDataURI("data:image/png;base64," + tinyPNG)
	if !ok {
		t.Fatal("valid PNG data URI rejected")
	}
	if ext != extension.Png {
		t.Errorf("ext = %v, want png", ext)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("decoded payload is not PNG bytes")
	}

	_, ext, ok = decodeDataURI("data:image/jpeg;base64," + tinyPNG)
	if !ok || ext != extension.Jpg {
		t.Errorf("jpeg media type not detected: ok=%v ext=%v", ok, ext)
	}

	if _, _, ok := decodeDataURI("data:image/png;base64"); ok {
		t.Error("data URI without payload accepted")
	}
	if _, _, ok := decodeDataURI("data:image/png;base64,not!!base64"); ok {
		t.Error("malformed base64 accepted")
	}
	if _, _, ok := decodeDataURI(""); ok {
		t.Error("empty string accepted")
	}
}

func TestBuildReceiptPDF(t *testing.T) {
	service := &models.Service{
		Folio:       5001,
		Client:      "Maria Lopez",
		ClientPhone: "+528112345678",
		Address:     "Av. Constitucion 400",
		Subtotals:   models.FeeBreakdown{InstallationServiceFee: 862.06},
		IVA:         models.FeeBreakdown{InstallationServiceFee: 137.93},
		Totals:      models.FeeBreakdown{InstallationServiceFee: 999.99},
	}

	in := ReceiptInput{
		StartTime:     "09:00",
		EndTime:       "11:30",
		InstallerName: "Installer 77",
		InstalledProduct: []InstalledProduct{
			{InstalledProduct: "Minisplit 1.5T", InstalledIn: "Bedroom", Quantity: 1, Specification: "220V", SerialNumber: "SN-1"},
		},
		Recommendations: "Clean the filters monthly",
		ClientComments:  "All good",
		ClientSignature: "data:image/png;base64," + tinyPNG,
		Images:          []string{"data:image/png;base64," + tinyPNG},
	}

	pdf, err := BuildReceiptPDF(service, in)
	if err != nil {
		t.Fatalf("BuildReceiptPDF failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF (%d bytes)", len(pdf))
	}
}
