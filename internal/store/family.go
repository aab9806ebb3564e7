package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avelan/rationd/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

const familyCols = `id, family_id, head_of_family, num_members, member_list, address, phone, aadhaar, card_type, created_at, updated_at`

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var f model.Family
	var memberList string
	var aadhaar, cardType sql.NullString

	err := scanner.Scan(&f.ID, &f.FamilyID, &f.HeadOfFamily, &f.NumMembers, &memberList,
		&f.Address, &f.Phone, &aadhaar, &cardType, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(memberList), &f.MemberList); err != nil {
		return nil, fmt.Errorf("decode member list: %w", err)
	}
	f.Aadhaar = aadhaar.String
	f.CardType = cardType.String
	return &f, nil
}

func (s *FamilyStore) Create(f *model.Family) (*model.Family, error) {
	members, err := json.Marshal(f.MemberList)
	if err != nil {
		return nil, fmt.Errorf("encode member list: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO families (family_id, head_of_family, num_members, member_list, address, phone, aadhaar, card_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FamilyID, f.HeadOfFamily, f.NumMembers, string(members), f.Address, f.Phone, f.Aadhaar, f.CardType,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateFamilyID
		}
		return nil, fmt.Errorf("insert family: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *FamilyStore) List() ([]model.Family, error) {
	rows, err := s.db.Query(`SELECT ` + familyCols + ` FROM families ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query families: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, *f)
	}
	return families, rows.Err()
}

func (s *FamilyStore) GetByID(id int64) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

// GetByFamilyID looks a family up by its external natural key.
func (s *FamilyStore) GetByFamilyID(familyID string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE family_id = ?`, familyID)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family by family_id: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) Update(id int64, f *model.Family) (*model.Family, error) {
	members, err := json.Marshal(f.MemberList)
	if err != nil {
		return nil, fmt.Errorf("encode member list: %w", err)
	}

	result, err := s.db.Exec(
		`UPDATE families SET family_id = ?, head_of_family = ?, num_members = ?, member_list = ?,
		 address = ?, phone = ?, aadhaar = ?, card_type = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		f.FamilyID, f.HeadOfFamily, f.NumMembers, string(members), f.Address, f.Phone, f.Aadhaar, f.CardType, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateFamilyID
		}
		return nil, fmt.Errorf("update family: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	// Row may have been deleted since the caller's existence check
	if rows == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

// Delete is unconditional; historical sales keep their denormalized fields.
func (s *FamilyStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	return nil
}

// FamilyIDExists checks the natural key for duplicates, ignoring excludeID so
// updates can keep their own key.
func (s *FamilyStore) FamilyIDExists(familyID string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM families WHERE family_id = ? AND id != ?`,
		familyID, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check family_id exists: %w", err)
	}
	return count > 0, nil
}

func (s *FamilyStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM families`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count families: %w", err)
	}
	return count, nil
}

// isUniqueViolation matches the driver's UNIQUE constraint message. The
// pre-check in handlers catches the common case; this covers the race
// between check and insert.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
