package service

import invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"

// SampleInvoice is the fixed dataset behind template previews.
func SampleInvoice() (invoice, user, client invoicedomain.RawInput) {
	invoice = invoicedomain.RawInput{
		"id":            "F-2024-0042",
		"date":          "2024-03-01",
		"dueDate":       "2024-03-31",
		"currency":      "EUR",
		"paymentTerms":  "30 jours fin de mois",
		"paymentMethod": "Virement bancaire",
		"items": []any{
			map[string]any{"description": "Développement d'une application web", "quantity": 12, "unitPrice": 450, "tvaRate": 20, "unit": "jour"},
			map[string]any{"description": "Hébergement annuel", "quantity": 1, "unitPrice": 240, "tvaRate": 20},
			map[string]any{"description": "Guide utilisateur imprimé", "quantity": 5, "unitPrice": 18, "tvaRate": 5.5},
		},
	}
	user = invoicedomain.RawInput{
		"name":       "Studio Lumière SAS",
		"legalForm":  "SAS",
		"address":    "18 avenue Jean Jaurès",
		"postalCode": "69007",
		"city":       "Lyon",
		"country":    "FR",
		"siret":      "85212345600017",
		"vatNumber":  "FR32852123456",
		"rcs":        "Lyon B 852 123 456",
		"capital":    "10 000 €",
		"email":      "contact@studio-lumiere.fr",
		"iban":       "FR7630006000011234567890189",
		"bic":        "AGRIFRPP",
	}
	client = invoicedomain.RawInput{
		"name":       "Librairie des Canuts",
		"address":    "4 place Colbert",
		"postalCode": "69001",
		"city":       "Lyon",
		"country":    "FR",
		"type":       "company",
		"vatNumber":  "FR61501234567",
	}
	return invoice, user, client
}
