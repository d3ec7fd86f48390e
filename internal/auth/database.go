package auth

import (
	"errors"

	"github.com/kisaansetu/mandi-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateAccount(account *types.Account) error {
	return d.db.Create(account).Error
}

func (d *Database) GetAccount(accountID string) (*types.Account, error) {
	var account types.Account
	if err := d.db.Where("account_id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (d *Database) GetAccountByMobile(mobile string) (*types.Account, error) {
	var account types.Account
	if err := d.db.Where("mobile = ?", mobile).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByMobileOrEmail is used by signup to detect duplicates
func (d *Database) GetAccountByMobileOrEmail(mobile, email string) (*types.Account, error) {
	var account types.Account
	query := d.db.Where("mobile = ?", mobile)
	if email != "" {
		query = d.db.Where("mobile = ? OR email = ?", mobile, email)
	}
	if err := query.First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
