// Package label maps internal field keys to their French display strings.
package label

var labels = map[string]string{
	"invoice":         "Facture",
	"invoiceNumber":   "Facture N°",
	"date":            "Date d'émission",
	"dueDate":         "Date d'échéance",
	"currency":        "Devise",
	"status":          "Statut",
	"notes":           "Notes",
	"paymentTerms":    "Conditions de paiement",
	"paymentMethod":   "Mode de paiement",
	"seller":          "Émetteur",
	"client":          "Destinataire",
	"name":            "Nom",
	"address":         "Adresse",
	"postalCode":      "Code postal",
	"city":            "Ville",
	"country":         "Pays",
	"legalForm":       "Forme juridique",
	"vatNumber":       "N° TVA intracommunautaire",
	"siret":           "SIRET",
	"siren":           "SIREN",
	"capital":         "Capital social",
	"rcs":             "RCS",
	"email":           "E-mail",
	"phone":           "Téléphone",
	"website":         "Site web",
	"iban":            "IBAN",
	"bic":             "BIC",
	"bankName":        "Banque",
	"bankDetails":     "Coordonnées bancaires",
	"insurance":       "Assurance professionnelle",
	"insurancePolicy": "N° de police",
	"description":     "Désignation",
	"quantity":        "Quantité",
	"unit":            "Unité",
	"unitPrice":       "Prix unitaire HT",
	"tvaRate":         "TVA",
	"totalPrice":      "Montant HT",
	"subtotal":        "Total HT",
	"totalTVA":        "TVA",
	"discount":        "Remise",
	"total":           "Total TTC",
	"legalNotes":      "Mentions légales",
	"variantNotes":    "Mentions particulières",
	"generatedAt":     "Document généré le",
	"tvaExempt":       "Exonéré",
	"autoliquidation": "Autoliquidation",
}

// Get returns the French label for key, or key itself when none is defined.
func Get(key string) string {
	if v, ok := labels[key]; ok {
		return v
	}
	return key
}

// All returns a copy of the label table.
func All() map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
