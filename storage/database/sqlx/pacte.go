package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core/pacte"
)

type contractRow struct {
	TeacherID         string    `db:"teacher_id"`
	InPacte           bool      `db:"in_pacte"`
	HoursDF           float64   `db:"hours_df"`
	HoursRCD          float64   `db:"hours_rcd"`
	CompletedHoursDF  float64   `db:"completed_hours_df"`
	CompletedHoursRCD float64   `db:"completed_hours_rcd"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func toContractRow(c pacte.Contract) contractRow {
	return contractRow{
		TeacherID:         c.TeacherID,
		InPacte:           c.InPacte,
		HoursDF:           c.HoursDF,
		HoursRCD:          c.HoursRCD,
		CompletedHoursDF:  c.CompletedHoursDF,
		CompletedHoursRCD: c.CompletedHoursRCD,
		UpdatedAt:         c.UpdatedAt.UTC(),
	}
}

func fromContractRow(row contractRow) pacte.Contract {
	return pacte.Contract{
		TeacherID:         row.TeacherID,
		InPacte:           row.InPacte,
		HoursDF:           row.HoursDF,
		HoursRCD:          row.HoursRCD,
		CompletedHoursDF:  row.CompletedHoursDF,
		CompletedHoursRCD: row.CompletedHoursRCD,
		UpdatedAt:         row.UpdatedAt,
	}
}

type pacteRepository struct {
	db *sqlx.DB
}

var _ pacte.Repository = (*pacteRepository)(nil)

func NewPacteRepository(db *sqlx.DB) *pacteRepository {
	return &pacteRepository{db: db}
}

func (repo *pacteRepository) GetContract(teacherID string) (pacte.Contract, error) {
	var row contractRow
	q := repo.db.Rebind(`SELECT * FROM pacte_contract WHERE teacher_id = ?`)
	if err := repo.db.Get(&row, q, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return pacte.Contract{}, pacte.ErrNotFound
		}
		return pacte.Contract{}, errors.Wrap(err, "getting contract")
	}
	return fromContractRow(row), nil
}

func (repo *pacteRepository) QueryAllContracts() ([]pacte.Contract, error) {
	var rows []contractRow
	if err := repo.db.Select(&rows, `SELECT * FROM pacte_contract ORDER BY teacher_id`); err != nil {
		return nil, errors.Wrap(err, "querying contracts")
	}
	contracts := make([]pacte.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, fromContractRow(row))
	}
	return contracts, nil
}

const contractUpsert = `
INSERT INTO pacte_contract (teacher_id, in_pacte, hours_df, hours_rcd, completed_hours_df, completed_hours_rcd, updated_at)
VALUES (:teacher_id, :in_pacte, :hours_df, :hours_rcd, :completed_hours_df, :completed_hours_rcd, :updated_at)
ON CONFLICT (teacher_id) DO UPDATE SET
	in_pacte = EXCLUDED.in_pacte,
	hours_df = EXCLUDED.hours_df,
	hours_rcd = EXCLUDED.hours_rcd,
	completed_hours_df = EXCLUDED.completed_hours_df,
	completed_hours_rcd = EXCLUDED.completed_hours_rcd,
	updated_at = EXCLUDED.updated_at`

func (repo *pacteRepository) UpsertContract(c pacte.Contract) (pacte.Contract, error) {
	if _, err := repo.db.NamedExec(contractUpsert, toContractRow(c)); err != nil {
		return pacte.Contract{}, errors.Wrap(err, "upserting contract")
	}
	return c, nil
}
