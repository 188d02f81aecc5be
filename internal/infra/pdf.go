package infra

// pdf.go — document rendering with go-pdf/fpdf.
// Two printables per trámite:
//   - Formato 027: carta-size solicitud/autorización de anteojos
//   - Tarjeta 028: tarjeta de control de dotaciones
// Reprints carry a REIMPRESION watermark line with the recorded motivo.

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
)

func nombreBeneficiario(t *model.Tramite) string {
	return fmt.Sprintf("%s %s %s", t.Beneficiario.Nombre, t.Beneficiario.ApellidoPaterno, t.Beneficiario.ApellidoMaterno)
}

func emisionLinea(meta *dto.ImpresionResponse) string {
	if meta.Emision == "REIMPRESION" {
		return fmt.Sprintf("REIMPRESIÓN No. %d — Motivo: %s", meta.NumeroImpresion, meta.Motivo)
	}
	return "EMISIÓN ORIGINAL"
}

// GenerateFormatoPDF renders the Formato 027 for an authorized trámite.
func GenerateFormatoPDF(t *model.Tramite, meta *dto.ImpresionResponse) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(18, 16, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 36

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 8, tr("SOLICITUD Y AUTORIZACIÓN DE ANTEOJOS"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Formato 027", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, tr("Folio: "+t.Folio), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(emisionLinea(meta)), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.Line(18, pdf.GetY(), pageW-18, pdf.GetY())
	pdf.Ln(3)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.35, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.65, 6, tr(value), "", 1, "L", false, 0, "")
	}

	row("Beneficiario:", nombreBeneficiario(t))
	row("Tipo:", string(t.Beneficiario.Tipo))
	row("NSS del trabajador:", t.Beneficiario.NSSTrabajador)
	if t.Beneficiario.NSSHijo != "" {
		row("NSS del hijo:", t.Beneficiario.NSSHijo)
	}
	row("Unidad:", t.Unidad)
	row("Contrato colectivo:", t.ContratoColectivoAplicable)
	row("Dotación número:", fmt.Sprintf("%d", t.DotacionNumero))
	row("Folio receta IMSS:", t.FolioRecetaIMSS)
	row("Descripción del lente:", t.DescripcionLente)
	if t.Dioptrias != "" {
		row("Dioptrías:", t.Dioptrias)
	}
	row("Importe solicitado:", "$"+t.ImporteSolicitado.StringFixed(2))
	if t.ImporteAutorizado != nil {
		row("Importe autorizado:", "$"+t.ImporteAutorizado.StringFixed(2))
	}
	pdf.Ln(6)

	if t.FirmaAutorizacion != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, tr(t.FirmaAutorizacion), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 5, tr("Validó: "+t.ValidadoPor), "", 1, "C", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Emitido por %s el %s", meta.Usuario, meta.Fecha)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: formato 027: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateTarjetaPDF renders the Tarjeta de Control 028, the pocket card that
// tracks the beneficiary's dotaciones.
func GenerateTarjetaPDF(t *model.Tramite, meta *dto.ImpresionResponse) ([]byte, error) {
	// Media carta apaisada
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 140, Ht: 216},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("TARJETA DE CONTROL DE ANTEOJOS"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Formato 028", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(emisionLinea(meta)), "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Folio: "+t.Folio), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Beneficiario: "+nombreBeneficiario(t)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("NSS: "+t.Beneficiario.NSSTrabajador), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Contrato: "+t.ContratoColectivoAplicable), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Casillas de dotación
	pdf.SetFont("Helvetica", "B", 8)
	cell := contentW / float64(model.DotacionMax)
	for i := 1; i <= model.DotacionMax; i++ {
		marca := ""
		if i <= t.DotacionNumero {
			marca = "X"
		}
		pdf.CellFormat(cell, 10, tr(fmt.Sprintf("Dotación %d: %s", i, marca)), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Emitido por %s el %s", meta.Usuario, meta.Fecha)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: tarjeta 028: %w", err)
	}
	return buf.Bytes(), nil
}
