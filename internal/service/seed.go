package service

import "storefront-service/internal/models"

// BrandName is the storefront's public name.
const BrandName = "BAHA CUIR"

// SeedCatalog returns the fixed catalog used when neither the store nor the
// snapshot has any products.
func SeedCatalog() []models.Product {
	return []models.Product{
		{
			ID:              "1",
			Name:            "Le Cartable Bleu Abysse",
			Category:        "bags",
			Price:           98000,
			Description:     "Une pièce maîtresse en cuir bleu marine profond, avec bouclerie en laiton massif.",
			Images:          []string{"https://images.unsplash.com/photo-1547949003-9792a18a2601?auto=format&fit=crop&q=80&w=800"},
			Details:         []string{"Couture main intégrale", "Cuir pleine fleur tannage végétal", "Poches compartimentées"},
			RealizationTime: "24 heures de main d'œuvre",
			WaitingTime:     "4 à 6 semaines",
		},
		{
			ID:              "2",
			Name:            "Pochette Nomade Charbon",
			Category:        "accessories",
			Price:           25000,
			Description:     "Compacte et fonctionnelle pour vos essentiels numériques.",
			Images:          []string{"https://images.unsplash.com/photo-1598532163257-ae3c6b2524b6?auto=format&fit=crop&q=80&w=800"},
			Details:         []string{"Zip YKK haute résistance", "Doublure protectrice", "Passage de câble intégré"},
			RealizationTime: "6 heures de main d'œuvre",
			WaitingTime:     "2 semaines",
		},
		{
			ID:              "3",
			Name:            "La Besace Cognac Héritage",
			Category:        "bags",
			Price:           65000,
			Description:     "Un classique indémodable. Ce sac à l'épaule en cuir tan développera une patine exceptionnelle.",
			Images:          []string{"https://images.unsplash.com/photo-1590874103328-eac38a683ce7?auto=format&fit=crop&q=80&w=800"},
			Details:         []string{"Bords polis à la main", "Bandoulière réglable", "Cuir gras 2.2mm"},
			RealizationTime: "16 heures de main d'œuvre",
			WaitingTime:     "3 à 4 semaines",
		},
	}
}
