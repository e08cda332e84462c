// Command seed loads idempotent demo data for local testing: users for
// each role (password "demo"), two teams with memberships, lookup rows
// and two pieces of equipment with a handful of requests in different
// stages. Re-running it is safe; existing rows are reused.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gearguard/maintenance-api/internal/config"
	"github.com/gearguard/maintenance-api/internal/database"
	"github.com/gearguard/maintenance-api/internal/lifecycle"
	"github.com/gearguard/maintenance-api/internal/repository"
	"github.com/gearguard/maintenance-api/internal/utils"
)

func main() {
	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stages := repository.NewStageRepo(db)
	if err := stages.EnsureDefaults(ctx); err != nil {
		log.Fatalf("seed stages: %v", err)
	}
	stageMap, err := stages.Map(ctx)
	if err != nil {
		log.Fatalf("load stages: %v", err)
	}

	s := seeder{ctx: ctx, db: db, bcryptCost: cfg.BcryptCost}

	managerID := s.user("manager@demo.com", "Demo Manager", "manager")
	tech1ID := s.user("tech1@demo.com", "Tech One", "technician")
	tech2ID := s.user("tech2@demo.com", "Tech Two", "technician")
	requesterID := s.user("user1@demo.com", "Requester One", "user")

	deptProdID := s.lookup("department", "Production")
	deptITID := s.lookup("department", "IT")
	catMachineID := s.lookup("equipment_category", "Machine")
	catLaptopID := s.lookup("equipment_category", "Laptop")

	mechID := s.lookup("maintenance_team", "Mechanics")
	itTeamID := s.lookup("maintenance_team", "IT Support")
	s.member(mechID, tech1ID)
	s.member(mechID, tech2ID)
	s.member(itTeamID, tech2ID)

	cncID := s.equipment("CNC Machine 01", "CNC-001", catMachineID, deptProdID, managerID, mechID, tech1ID)
	laptopID := s.equipment("Laptop-IT-44", "LT-44", catLaptopID, deptITID, requesterID, itTeamID, tech2ID)

	newID := mustStage(stageMap, lifecycle.StageNew)
	inProgressID := mustStage(stageMap, lifecycle.StageInProgress)
	repairedID := mustStage(stageMap, lifecycle.StageRepaired)

	twoDaysAgo := time.Now().UTC().Add(-48 * time.Hour)
	s.request("Leaking oil", "corrective", cncID, catMachineID, mechID, requesterID, nil, newID, nil)
	s.request("Laptop annual check", "preventive", laptopID, catLaptopID, itTeamID, managerID, &tech2ID, inProgressID, &twoDaysAgo)
	s.request("Hydraulic pressure low", "corrective", cncID, catMachineID, mechID, requesterID, &tech1ID, repairedID, nil)

	fmt.Println("demo data seeded")
}

func mustStage(m *repository.StageMap, s lifecycle.Stage) uint64 {
	id, ok := m.ID(s)
	if !ok {
		log.Fatalf("stage %s missing after bootstrap", s)
	}
	return id
}

// seeder bundles the handles so the ensure helpers stay short. Every
// helper exits the program on error; partial seeds are fine to re-run.
type seeder struct {
	ctx        context.Context
	db         *sql.DB
	bcryptCost int
}

func (s *seeder) user(email, fullName, role string) uint64 {
	var id uint64
	err := s.db.QueryRowContext(s.ctx, `SELECT id FROM app_user WHERE LOWER(email) = LOWER(?)`, email).Scan(&id)
	if err == nil {
		return id
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed user %s: %v", email, err)
	}
	hash, err := utils.HashPassword("demo", s.bcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	res, err := s.db.ExecContext(s.ctx,
		`INSERT INTO app_user (full_name, email, password_hash, role, is_active) VALUES (?, ?, ?, ?, TRUE)`,
		fullName, email, hash, role)
	if err != nil {
		log.Fatalf("seed user %s: %v", email, err)
	}
	n, _ := res.LastInsertId()
	return uint64(n)
}

// lookup ensures a single-name row (department, category, team) exists.
func (s *seeder) lookup(table, name string) uint64 {
	var id uint64
	err := s.db.QueryRowContext(s.ctx, `SELECT id FROM `+table+` WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed %s %s: %v", table, name, err)
	}
	res, err := s.db.ExecContext(s.ctx, `INSERT INTO `+table+` (name) VALUES (?)`, name)
	if err != nil {
		log.Fatalf("seed %s %s: %v", table, name, err)
	}
	n, _ := res.LastInsertId()
	return uint64(n)
}

func (s *seeder) member(teamID, userID uint64) {
	_, err := s.db.ExecContext(s.ctx,
		`INSERT IGNORE INTO maintenance_team_member (team_id, user_id) VALUES (?, ?)`, teamID, userID)
	if err != nil {
		log.Fatalf("seed membership %d/%d: %v", teamID, userID, err)
	}
}

func (s *seeder) equipment(name, serial string, categoryID, departmentID, ownerID, teamID, defaultTechID uint64) uint64 {
	var id uint64
	err := s.db.QueryRowContext(s.ctx, `SELECT id FROM equipment WHERE serial_number = ?`, serial).Scan(&id)
	if err == nil {
		return id
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed equipment %s: %v", serial, err)
	}
	res, err := s.db.ExecContext(s.ctx,
		`INSERT INTO equipment (name, serial_number, category_id, department_id, owner_user_id,
		                        maintenance_team_id, default_technician_id, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 'active')`,
		name, serial, categoryID, departmentID, ownerID, teamID, defaultTechID)
	if err != nil {
		log.Fatalf("seed equipment %s: %v", serial, err)
	}
	n, _ := res.LastInsertId()
	return uint64(n)
}

// request is keyed on (subject, equipment) so re-runs do not duplicate.
func (s *seeder) request(subject, reqType string, equipmentID, categoryID, teamID, requesterID uint64, assignedTo *uint64, stageID uint64, scheduledStart *time.Time) {
	var id uint64
	err := s.db.QueryRowContext(s.ctx,
		`SELECT id FROM maintenance_request WHERE subject = ? AND equipment_id = ?`,
		subject, equipmentID).Scan(&id)
	if err == nil {
		return
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed request %q: %v", subject, err)
	}
	_, err = s.db.ExecContext(s.ctx,
		`INSERT INTO maintenance_request (request_type, subject, equipment_id, equipment_category_id,
		                                  team_id, requester_id, assigned_to_id, stage_id, scheduled_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reqType, subject, equipmentID, categoryID, teamID, requesterID, assignedTo, stageID, scheduledStart)
	if err != nil {
		log.Fatalf("seed request %q: %v", subject, err)
	}
}
