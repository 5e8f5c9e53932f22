package models

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "disponible"
	VehicleOnMission   VehicleStatus = "en_mission"
	VehicleMaintenance VehicleStatus = "maintenance"
)

type Vehicule struct {
	Base
	Immatriculation string        `gorm:"uniqueIndex;size:20;not null" json:"immatriculation"`
	TypeVehicule    string        `gorm:"size:50" json:"typeVehicule"`
	Capacite        string        `gorm:"size:20" json:"capacite"`
	Statut          VehicleStatus `gorm:"type:varchar(20);not null" json:"statut"`
}

type VehiculePatch struct {
	Immatriculation *string        `json:"immatriculation" binding:"omitempty,min=1,max=20"`
	TypeVehicule    *string        `json:"typeVehicule" binding:"omitempty,max=50"`
	Capacite        *string        `json:"capacite" binding:"omitempty,max=20"`
	Statut          *VehicleStatus `json:"statut" binding:"omitempty,oneof=disponible en_mission maintenance"`
}

func (p *VehiculePatch) Normalize() {
	for _, s := range []*string{p.Immatriculation, p.TypeVehicule, p.Capacite} {
		trim(s)
	}
}

func (p VehiculePatch) Apply(v *Vehicule) {
	if p.Immatriculation != nil {
		v.Immatriculation = *p.Immatriculation
	}
	if p.TypeVehicule != nil {
		v.TypeVehicule = *p.TypeVehicule
	}
	if p.Capacite != nil {
		v.Capacite = *p.Capacite
	}
	if p.Statut != nil {
		v.Statut = *p.Statut
	}
}
