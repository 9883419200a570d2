package wallet

import (
	"errors"

	"github.com/luckybingo/bingo-server/models"

	"gorm.io/gorm"
)

// Store is the persistence boundary of the ledger. Get must return a
// zeroed wallet for users that have never transacted. RecordDeposit
// reports false when the reference has been seen before, so deposit
// replays never credit twice.
type Store interface {
	Wallet(userID uint) (*models.Wallet, error)
	Save(w *models.Wallet) error
	Append(tx *models.Transaction) error
	RecordDeposit(d *models.Deposit) (created bool, err error)
}

// GormStore persists wallets and transactions through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Wallet(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := s.db.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.Wallet{UserID: userID}
		if err := s.db.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *GormStore) Save(w *models.Wallet) error {
	return s.db.Save(w).Error
}

func (s *GormStore) Append(tx *models.Transaction) error {
	return s.db.Create(tx).Error
}

func (s *GormStore) RecordDeposit(d *models.Deposit) (bool, error) {
	res := s.db.Where("reference = ?", d.Reference).FirstOrCreate(d)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
