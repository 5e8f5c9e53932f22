package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// SeedAdmin crée le compte administrateur tant qu'aucun utilisateur admin n'existe.
// Un admin renommé ou un autre admin suffit à ne rien faire.
func SeedAdmin(ctx context.Context, st store.Store, username, password string, log *zap.Logger) error {
	if username == "" {
		username = DefaultAdminUsername
	}
	if password == "" {
		password = DefaultAdminPassword
	}

	users, err := st.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			return nil
		}
	}

	_, err = st.UserByUsername(ctx, username)
	if err == nil {
		// nom pris par un compte non admin
		log.Warn("default admin not created, username already in use", zap.String("username", username))
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        "admin@monauxiliaire.fr",
		Role:         models.RoleAdmin,
	}
	if err := st.Users().Create(ctx, &admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info("created default admin user", zap.String("username", username))
	return nil
}

// SeedDemo remplit un magasin vide avec un jeu de données de démonstration:
// trois sites, deux employés, deux véhicules et deux prestations du jour.
// Rien n'est fait si des sites existent déjà.
func SeedDemo(ctx context.Context, st store.Store, now time.Time, log *zap.Logger) error {
	existing, err := st.Sites().List(ctx)
	if err != nil {
		return fmt.Errorf("list sites: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	sites := []models.Site{
		{
			NomSite:          "Entrepôt Central",
			Ville:            "Paris",
			Adresse:          "12 rue de la Logistique, 75012 Paris",
			ContactNom:       "Jean Dupont",
			ContactTelephone: "01 23 45 67 89",
			ContactEmail:     "j.dupont@entrepot-central.fr",
			TarifHoraire:     decimal.NewNullDecimal(decimal.NewFromInt(45)),
			Actif:            true,
		},
		{
			NomSite:          "Plateforme Sud",
			Ville:            "Lyon",
			Adresse:          "8 avenue des Transports, 69007 Lyon",
			ContactNom:       "Marie Laurent",
			ContactTelephone: "04 78 12 34 56",
			ContactEmail:     "m.laurent@plateforme-sud.fr",
			TarifHoraire:     decimal.NewNullDecimal(decimal.NewFromInt(42)),
			Actif:            true,
		},
		{
			NomSite:          "Dépôt Atlantique",
			Ville:            "Nantes",
			Adresse:          "3 quai de la Fosse, 44000 Nantes",
			ContactNom:       "Paul Bernard",
			ContactTelephone: "02 40 11 22 33",
			TarifHoraire:     decimal.NewNullDecimal(decimal.NewFromInt(40)),
			Actif:            true,
		},
	}
	for i := range sites {
		if err := st.Sites().Create(ctx, &sites[i]); err != nil {
			return fmt.Errorf("create site %s: %w", sites[i].NomSite, err)
		}
	}

	employes := []models.Employe{
		{
			Nom:               "Martin",
			Prenom:            "Pierre",
			Telephone:         "06 12 34 56 78",
			SalaireJournalier: decimal.NewNullDecimal(decimal.NewFromInt(150)),
			Specialite:        "Chef d'équipe",
			Actif:             true,
		},
		{
			Nom:               "Petit",
			Prenom:            "Sophie",
			Telephone:         "06 98 76 54 32",
			SalaireJournalier: decimal.NewNullDecimal(decimal.NewFromInt(120)),
			Specialite:        "Manutentionnaire",
			Actif:             true,
		},
	}
	for i := range employes {
		if err := st.Employes().Create(ctx, &employes[i]); err != nil {
			return fmt.Errorf("create employe %s: %w", employes[i].FullName(), err)
		}
	}

	vehicules := []models.Vehicule{
		{Immatriculation: "AB-123-CD", TypeVehicule: "Camion 20m³", Capacite: "20m³", Statut: models.VehicleAvailable},
		{Immatriculation: "EF-456-GH", TypeVehicule: "Fourgon 12m³", Capacite: "12m³", Statut: models.VehicleAvailable},
	}
	for i := range vehicules {
		if err := st.Vehicules().Create(ctx, &vehicules[i]); err != nil {
			return fmt.Errorf("create vehicule %s: %w", vehicules[i].Immatriculation, err)
		}
	}

	today := now.Format(models.DateLayout)
	prestations := []models.Prestation{
		{
			SiteID:              sites[0].ID,
			DatePrestation:      today,
			HeureDebut:          "08:00",
			HeureFin:            "12:00",
			NbManutentionnaires: 4,
			NbCamions:           1,
			MontantPrevu:        decimal.NewNullDecimal(decimal.NewFromInt(720)),
			StatutPaiement:      models.PaymentPending,
			StatutPrestation:    models.JobPlanned,
		},
		{
			SiteID:              sites[1].ID,
			DatePrestation:      today,
			HeureDebut:          "14:00",
			HeureFin:            "17:00",
			NbManutentionnaires: 3,
			NbCamions:           1,
			MontantPrevu:        decimal.NewNullDecimal(decimal.NewFromInt(378)),
			StatutPaiement:      models.PaymentPending,
			StatutPrestation:    models.JobPlanned,
		},
	}
	for i := range prestations {
		if err := st.Prestations().Create(ctx, &prestations[i]); err != nil {
			return fmt.Errorf("create prestation: %w", err)
		}
	}

	affectations := []models.Affectation{
		{PrestationID: prestations[0].ID, EmployeID: employes[0].ID, Present: true},
		{PrestationID: prestations[1].ID, EmployeID: employes[1].ID, Present: true},
	}
	for i := range affectations {
		if err := st.Affectations().Create(ctx, &affectations[i]); err != nil {
			return fmt.Errorf("create affectation: %w", err)
		}
	}

	log.Info("seeded demo data",
		zap.Int("sites", len(sites)),
		zap.Int("employes", len(employes)),
		zap.Int("vehicules", len(vehicules)),
		zap.Int("prestations", len(prestations)),
	)
	return nil
}
