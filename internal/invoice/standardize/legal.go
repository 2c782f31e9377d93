package standardize

import "github.com/smallbiznis/facture/internal/invoice/domain"

const (
	NoteLatePenalty = "En cas de retard de paiement, des pénalités de retard au taux de trois fois le taux d'intérêt légal sont exigibles (article L441-10 du Code de commerce)."
	NoteRecoveryFee = "Une indemnité forfaitaire de 40 € pour frais de recouvrement est due en cas de retard de paiement (article D441-5 du Code de commerce)."
	NoteNoDiscount  = "Aucun escompte n'est accordé en cas de paiement anticipé."

	NotePaymentTermDE  = "Zahlbar innerhalb von 30 Tagen ohne Abzug."
	NoteLateInterestDE = "Bei Zahlungsverzug werden Verzugszinsen gemäß § 288 BGB berechnet."

	NoteVATExemptFR = "TVA non applicable, art. 293 B du CGI (régime de la franchise en base)"
	NoteVATExemptDE = "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet."
)

// LegalNotes returns the compliance mentions for the buyer's country. The
// result is never nil.
func LegalNotes(client domain.Client, totals domain.Totals) []string {
	notes := []string{}
	switch client.Country {
	case "FR":
		notes = append(notes, NoteLatePenalty, NoteRecoveryFee, NoteNoDiscount)
	case "DE":
		notes = append(notes, NotePaymentTermDE, NoteLateInterestDE)
	}
	if totals.TotalTVA == 0 {
		if client.Country == "DE" {
			notes = append(notes, NoteVATExemptDE)
		} else {
			notes = append(notes, NoteVATExemptFR)
		}
	}
	return notes
}
