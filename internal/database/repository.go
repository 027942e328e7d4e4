package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/khrees2412/jobmatch/pkg/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrTaxonomyExists = errors.New("taxonomy version already imported")
)

// Resume operations

func CreateResume(resume *models.Resume) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Only one default resume at a time
	if resume.IsDefault {
		if _, err := tx.Exec("UPDATE resumes SET is_default=0"); err != nil {
			return err
		}
	}

	query := `INSERT INTO resumes (name, file_path, content_text, is_default)
			  VALUES (?, ?, ?, ?)`
	result, err := tx.Exec(query, resume.Name, resume.FilePath, resume.ContentText, resume.IsDefault)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	resume.ID = int(id)
	return tx.Commit()
}

func SetDefaultResume(resumeID int) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE resumes SET is_default=0"); err != nil {
		return err
	}
	result, err := tx.Exec("UPDATE resumes SET is_default=1 WHERE id=?", resumeID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func GetResume(id int) (*models.Resume, error) {
	query := `SELECT id, name, file_path, content_text, is_default, created_at
			  FROM resumes WHERE id=?`
	resume, err := scanResume(DB.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return resume, err
}

func GetAllResumes() ([]*models.Resume, error) {
	query := `SELECT id, name, file_path, content_text, is_default, created_at
			  FROM resumes ORDER BY created_at DESC, id DESC`
	rows, err := DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := []*models.Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

// GetDefaultResume returns nil without error when no default is set
func GetDefaultResume() (*models.Resume, error) {
	query := `SELECT id, name, file_path, content_text, is_default, created_at
			  FROM resumes WHERE is_default=1 LIMIT 1`
	resume, err := scanResume(DB.QueryRow(query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return resume, err
}

func DeleteResume(id int) error {
	result, err := DB.Exec(`DELETE FROM resumes WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResume(row scanner) (*models.Resume, error) {
	resume := &models.Resume{}
	err := row.Scan(&resume.ID, &resume.Name, &resume.FilePath, &resume.ContentText,
		&resume.IsDefault, &resume.CreatedAt)
	if err != nil {
		return nil, err
	}
	return resume, nil
}

// Taxonomy operations

// SaveTaxonomy stores an encoded taxonomy. Versions are immutable, so
// importing an existing name and version fails with ErrTaxonomyExists.
func SaveTaxonomy(record *models.TaxonomyRecord) error {
	query := `INSERT INTO taxonomies (name, version, document) VALUES (?, ?, ?)`
	result, err := DB.Exec(query, record.Name, record.Version, record.Document)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrTaxonomyExists
		}
		return err
	}
	id, _ := result.LastInsertId()
	record.ID = int(id)
	return nil
}

func GetTaxonomy(name, version string) (*models.TaxonomyRecord, error) {
	query := `SELECT id, name, version, document, created_at
			  FROM taxonomies WHERE name=? AND version=?`
	record := &models.TaxonomyRecord{}
	err := DB.QueryRow(query, name, version).Scan(&record.ID, &record.Name, &record.Version,
		&record.Document, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListTaxonomies returns every imported version without the document body
func ListTaxonomies() ([]*models.TaxonomyRecord, error) {
	query := `SELECT id, name, version, created_at
			  FROM taxonomies ORDER BY name, created_at, id`
	rows, err := DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.TaxonomyRecord{}
	for rows.Next() {
		record := &models.TaxonomyRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.Version, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
