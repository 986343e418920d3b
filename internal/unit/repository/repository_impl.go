package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/unidecode"
	"github.com/orghub/orghub/internal/unit/domain"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

// Normalize folds case and diacritics for the name_search column, so
// "Việt Nam" is findable with the query "viet".
func Normalize(name string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(name)))
}

func (r *repository) Create(ctx context.Context, unit *domain.Unit) error {
	unit.NameSearch = Normalize(unit.Name)
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Unit, error) {
	var unit domain.Unit
	err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnitNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (r *repository) Update(ctx context.Context, unit *domain.Unit) error {
	unit.NameSearch = Normalize(unit.Name)
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Unit{}, "id = ?", id).Error
}

func (r *repository) InsertMembers(ctx context.Context, members []domain.UnitMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&members).Error
}

func (r *repository) ListMembers(ctx context.Context, unitID snowflake.ID) ([]domain.UnitMember, error) {
	var members []domain.UnitMember
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) DeleteMembers(ctx context.Context, unitID snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.UnitMember{}, "unit_id = ?", unitID).Error
}

// SetLeader flips the leader flag off for every member and on for the
// designated one in a single statement.
func (r *repository) SetLeader(ctx context.Context, unitID, leaderID, updatedBy snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE unit_members
		 SET is_leader = (user_id = ?), updated_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE unit_id = ?`,
		leaderID, updatedBy, unitID,
	).Error
}

type filterRow struct {
	domain.Unit
	MemberCount       int
	LeaderID          *snowflake.ID
	LeaderEmail       *string
	LeaderFullName    *string
	LeaderIsActive    *bool
	LeaderIsSuperuser *bool
	LeaderThemesMode  *string
	LeaderLang        *string
}

func (r *repository) Filter(ctx context.Context, req domain.FilterRequest) ([]domain.UnitRead, error) {
	stmt := r.db.WithContext(ctx).
		Table("units AS u").
		Select(`u.*,
			(SELECT COUNT(*) FROM unit_members m WHERE m.unit_id = u.id) AS member_count,
			lu.id AS leader_id,
			lu.email AS leader_email,
			lu.full_name AS leader_full_name,
			lu.is_active AS leader_is_active,
			lu.is_superuser AS leader_is_superuser,
			lu.themes_mode AS leader_themes_mode,
			lu.lang AS leader_lang`).
		Joins(`LEFT JOIN unit_members lm ON lm.unit_id = u.id AND lm.is_leader`).
		Joins(`LEFT JOIN users lu ON lu.id = lm.user_id`)

	if keyword := Normalize(req.Name); keyword != "" {
		stmt = stmt.Where("u.name_search LIKE ?", "%"+keyword+"%")
	}
	if len(req.CreatedBy) > 0 {
		stmt = stmt.Where("u.created_by IN ?", req.CreatedBy)
	}
	if len(req.LeaderID) > 0 {
		stmt = stmt.Where("lm.user_id IN ?", req.LeaderID)
	}

	var rows []filterRow
	err := stmt.
		Scopes(req.Apply()).
		Order("u.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	units := make([]domain.UnitRead, 0, len(rows))
	for _, row := range rows {
		read := domain.UnitRead{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
			MemberCount: row.MemberCount,
		}
		if row.LeaderID != nil {
			leader := &userdomain.PublicProfile{ID: *row.LeaderID}
			if row.LeaderEmail != nil {
				leader.Email = *row.LeaderEmail
			}
			if row.LeaderFullName != nil {
				leader.FullName = *row.LeaderFullName
			}
			if row.LeaderIsActive != nil {
				leader.IsActive = *row.LeaderIsActive
			}
			if row.LeaderIsSuperuser != nil {
				leader.IsSuperuser = *row.LeaderIsSuperuser
			}
			if row.LeaderThemesMode != nil {
				leader.ThemeMode = userdomain.ThemeMode(*row.LeaderThemesMode)
			}
			if row.LeaderLang != nil {
				leader.Lang = userdomain.Lang(*row.LeaderLang)
			}
			read.Leader = leader
		}
		units = append(units, read)
	}
	return units, nil
}
