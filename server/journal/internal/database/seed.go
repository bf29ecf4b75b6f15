package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

var seedUsers = []struct {
	username string
	password string
	name     string
	role     string
}{
	{"admin", "admin", "Administrator", journal.RoleAdmin},
	{"senior", "123", "I. Ivanov (senior dispatcher)", journal.RoleSenior},
	{"editor", "123", "P. Petrov (dispatcher)", journal.RoleEditor},
	{"reader", "123", "S. Sidorov (read only)", journal.RoleReader},
}

const (
	reasonCableLines    = "Cable line 0.4/6/10 kV failures"
	reasonOverheadLines = "Overhead line 0.4/6/10 kV failures"
	reasonThirdParty    = "Outages caused by third-party equipment"
	reasonTransformer   = "Transformer point 10/6/0.4 kV failures"
)

var seedReasons = []journal.OutageReason{
	{Category: reasonCableLines, Subcategory: "Insulation breakdown"},
	{Category: reasonCableLines, Subcategory: "Unauthorized excavation in the cable protection zone"},
	{Category: reasonCableLines, Subcategory: "Overload or short-circuit currents"},
	{Category: reasonCableLines, Subcategory: "Manufacturing defects"},
	{Category: reasonCableLines, Subcategory: "Cable joint installation defects"},
	{Category: reasonCableLines, Subcategory: "Cause not established"},

	{Category: reasonOverheadLines, Subcategory: "Atmospheric overvoltage (lightning)"},
	{Category: reasonOverheadLines, Subcategory: "Icing, wet snow"},
	{Category: reasonOverheadLines, Subcategory: "Flashover by birds or animals"},
	{Category: reasonOverheadLines, Subcategory: "Wind loads"},
	{Category: reasonOverheadLines, Subcategory: "Vehicle collision with a support"},
	{Category: reasonOverheadLines, Subcategory: "Falling trees or branches"},
	{Category: reasonOverheadLines, Subcategory: "Conductor breakage"},
	{Category: reasonOverheadLines, Subcategory: "Insulator failure"},
	{Category: reasonOverheadLines, Subcategory: "Overload or short-circuit currents"},
	{Category: reasonOverheadLines, Subcategory: "Cause not established"},

	{Category: reasonThirdParty, Subcategory: "Fault in an adjacent distribution network"},
	{Category: reasonThirdParty, Subcategory: "Fault in consumer-owned equipment"},
	{Category: reasonThirdParty, Subcategory: "Fault in the upstream transmission network"},

	{Category: reasonTransformer, Subcategory: "Animal ingress into the installation"},
	{Category: reasonTransformer, Subcategory: "Operating staff error"},
	{Category: reasonTransformer, Subcategory: "Contact joint overheating"},
	{Category: reasonTransformer, Subcategory: "Winding short circuit inside the power transformer"},
	{Category: reasonTransformer, Subcategory: "6/10 kV fuse failure"},
	{Category: reasonTransformer, Subcategory: "Oil leak (conservator, power transformer)"},
	{Category: reasonTransformer, Subcategory: "Equipment wear"},
	{Category: reasonTransformer, Subcategory: "Cause not established"},
}

// Seed populates users, the reason taxonomy, and, when the store is empty, a
// small demonstration topology with sample outages. Safe to run repeatedly.
func Seed(db *gorm.DB, logger *zap.Logger) error {
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := journal.User{Username: u.username, Password: string(hash), Name: u.name, Role: u.role}
		err = db.Where("username = ?", u.username).
			Assign(map[string]interface{}{"password": user.Password, "name": u.name, "role": u.role}).
			FirstOrCreate(&user).Error
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.username, err)
		}
	}
	logger.Info("seeded users", zap.Int("count", len(seedUsers)))

	if err := db.Exec("DELETE FROM outage_reason").Error; err != nil {
		return fmt.Errorf("failed to reset reason taxonomy: %w", err)
	}
	for i := range seedReasons {
		r := seedReasons[i]
		if err := db.Create(&r).Error; err != nil {
			return fmt.Errorf("failed to seed reason: %w", err)
		}
	}
	logger.Info("seeded reason taxonomy", zap.Int("count", len(seedReasons)))

	var substationCount int64
	if err := db.Model(&journal.Substation{}).Count(&substationCount).Error; err != nil {
		return err
	}
	if substationCount > 0 {
		return nil
	}
	return seedTopology(db, logger)
}

func seedTopology(db *gorm.DB, logger *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		psNorth := journal.Substation{
			Name:         `110/35/10 kV substation "North"`,
			VoltageClass: "110 kV",
			District:     "Northern district grid",
			Cells: []journal.Cell{
				{Name: "Bay 1 (cable 10 kV)", VoltageClass: "10 kV"},
				{Name: "Bay 2 (overhead 10 kV)", VoltageClass: "10 kV"},
			},
		}
		if err := tx.Create(&psNorth).Error; err != nil {
			return err
		}
		psRiver := journal.Substation{
			Name:         `35/6 kV substation "Riverside"`,
			VoltageClass: "35 kV",
			District:     "Central district grid",
			Cells: []journal.Cell{
				{Name: "Bay 5", VoltageClass: "6 kV"},
			},
		}
		if err := tx.Create(&psRiver).Error; err != nil {
			return err
		}

		line101 := journal.Line{
			Name:               "OHL-10 kV no. 101",
			VoltageClass:       "10 kV",
			LineType:           journal.LineTypeOverhead,
			SourceCellID:       &psNorth.Cells[1].ID,
			NormalSourceCellID: &psNorth.Cells[1].ID,
		}
		line102 := journal.Line{
			Name:               "CL-10 kV no. 102",
			VoltageClass:       "10 kV",
			LineType:           journal.LineTypeCable,
			SourceCellID:       &psNorth.Cells[0].ID,
			NormalSourceCellID: &psNorth.Cells[0].ID,
		}
		line6 := journal.Line{
			Name:               "L-6 kV (Riverside)",
			VoltageClass:       "6 kV",
			LineType:           journal.LineTypeCable,
			SourceCellID:       &psRiver.Cells[0].ID,
			NormalSourceCellID: &psRiver.Cells[0].ID,
		}
		for _, l := range []*journal.Line{&line101, &line102, &line6} {
			if err := tx.Create(l).Error; err != nil {
				return err
			}
		}

		tp101 := journal.Tp{Name: "TP-101", VoltageClass: "10/0.4 kV", Capacity: "400 kVA", FeederID: &line101.ID, NormalFeederID: &line101.ID}
		tp102 := journal.Tp{Name: "TP-102", VoltageClass: "10/0.4 kV", Capacity: "250 kVA", FeederID: &line101.ID, NormalFeederID: &line101.ID}
		tp205 := journal.Tp{Name: "TP-205", VoltageClass: "6/0.4 kV", Capacity: "630 kVA", FeederID: &line6.ID, NormalFeederID: &line6.ID}
		for _, t := range []*journal.Tp{&tp101, &tp102, &tp205} {
			if err := tx.Create(t).Error; err != nil {
				return err
			}
		}

		secondary := []journal.Line{
			{Name: "OHL-0.4 kV L1 (from TP-101)", VoltageClass: "0.4 kV", LineType: journal.LineTypeOverhead, SourceTpID: &tp101.ID, NormalSourceTpID: &tp101.ID},
			{Name: "OHL-0.4 kV L2 (from TP-101)", VoltageClass: "0.4 kV", LineType: journal.LineTypeOverhead, SourceTpID: &tp101.ID, NormalSourceTpID: &tp101.ID},
		}
		for i := range secondary {
			if err := tx.Create(&secondary[i]).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		twoHours := now.Add(-24 * time.Hour).Add(2 * time.Hour)

		open := journal.OutageEvent{
			SubstationID:   &psNorth.ID,
			CellID:         &psNorth.Cells[0].ID,
			Type:           journal.EventTypeEmergency,
			ReasonCategory: reasonCableLines, ReasonSubcategory: "Insulation breakdown",
			TimeStart: now.Add(-5 * time.Hour),
			Comment:   "Automatic cable line trip; no visible damage found.",
		}
		if err := tx.Create(&open).Error; err != nil {
			return err
		}
		if err := tx.Create(&journal.EventLine{EventID: open.ID, LineID: line102.ID}).Error; err != nil {
			return err
		}

		planned := journal.OutageEvent{
			TpID:           &tp101.ID,
			Type:           journal.EventTypePlanned,
			ReasonCategory: reasonTransformer, ReasonSubcategory: "Equipment wear",
			TimeStart:       now,
			MeasuresPlanned: "Transformer maintenance",
			Comment:         "Scheduled district maintenance window",
		}
		if err := tx.Create(&planned).Error; err != nil {
			return err
		}

		closed := journal.OutageEvent{
			Type:           journal.EventTypeEmergency,
			ReasonCategory: reasonOverheadLines, ReasonSubcategory: "Falling trees or branches",
			TimeStart:   now.Add(-24 * time.Hour),
			TimeEnd:     &twoHours,
			Comment:     "Cleared branches thrown onto the overhead line.",
			IsCompleted: 1,
		}
		if err := tx.Create(&closed).Error; err != nil {
			return err
		}
		if err := tx.Create(&journal.EventLine{EventID: closed.ID, LineID: line101.ID}).Error; err != nil {
			return err
		}

		logger.Info("seeded demonstration topology and sample events")
		return nil
	})
}
