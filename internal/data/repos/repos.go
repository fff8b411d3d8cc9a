package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/repos/directory"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type VocabRepo = directory.VocabRepo
type ParentCompanyRepo = directory.ParentCompanyRepo

type OrgRepo = directory.OrgRepo
type CampusRepo = directory.CampusRepo
type ProgramRepo = directory.ProgramRepo

type JoinRepo = directory.JoinRepo
type FinanceRepo = directory.FinanceRepo
type ContentRepo = directory.ContentRepo

type ListQuery = directory.ListQuery

func NewVocabRepo(db *gorm.DB, baseLog *logger.Logger) VocabRepo {
	return directory.NewVocabRepo(db, baseLog)
}
func NewParentCompanyRepo(db *gorm.DB, baseLog *logger.Logger) ParentCompanyRepo {
	return directory.NewParentCompanyRepo(db, baseLog)
}

func NewOrgRepo(db *gorm.DB, baseLog *logger.Logger) OrgRepo { return directory.NewOrgRepo(db, baseLog) }
func NewCampusRepo(db *gorm.DB, baseLog *logger.Logger) CampusRepo {
	return directory.NewCampusRepo(db, baseLog)
}
func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return directory.NewProgramRepo(db, baseLog)
}

func NewJoinRepo(db *gorm.DB, baseLog *logger.Logger) JoinRepo { return directory.NewJoinRepo(db, baseLog) }
func NewFinanceRepo(db *gorm.DB, baseLog *logger.Logger) FinanceRepo {
	return directory.NewFinanceRepo(db, baseLog)
}
func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return directory.NewContentRepo(db, baseLog)
}

// Set bundles every directory repo over one connection.
type Set struct {
	Vocab         VocabRepo
	ParentCompany ParentCompanyRepo
	Orgs          OrgRepo
	Campuses      CampusRepo
	Programs      ProgramRepo
	Joins         JoinRepo
	Finance       FinanceRepo
	Content       ContentRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Vocab:         NewVocabRepo(db, baseLog),
		ParentCompany: NewParentCompanyRepo(db, baseLog),
		Orgs:          NewOrgRepo(db, baseLog),
		Campuses:      NewCampusRepo(db, baseLog),
		Programs:      NewProgramRepo(db, baseLog),
		Joins:         NewJoinRepo(db, baseLog),
		Finance:       NewFinanceRepo(db, baseLog),
		Content:       NewContentRepo(db, baseLog),
	}
}
