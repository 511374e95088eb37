// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petmatchdev/petmatch/internal/models"
)

// GetAccount returns the account aggregate (identity row plus survey
// profile) for username, or ErrNotFound. An account created before
// any survey answers still has a profile row, possibly all-empty.
func (s *Store) GetAccount(ctx context.Context, username string) (*models.Account, error) {
	const q = `
		SELECT a.username, a.email, a.first_name, a.last_name, a.language_pref, a.fav_category,
		       COALESCE(p.residence_env, ''), COALESCE(p.care_period, ''),
		       COALESCE(p.pet_color_pref, ''), COALESCE(p.pet_size_pref, ''),
		       COALESCE(p.activity_time, ''), COALESCE(p.diet_management, '')
		FROM accounts a
		LEFT JOIN profiles p ON p.username = a.username
		WHERE a.username = ?`

	var acct models.Account
	err := s.conn.QueryRowContext(ctx, q, username).Scan(
		&acct.Username, &acct.Email, &acct.FirstName, &acct.LastName,
		&acct.LanguagePref, &acct.FavCategory,
		&acct.Profile.ResidenceEnv, &acct.Profile.CarePeriod,
		&acct.Profile.PetColorPref, &acct.Profile.PetSizePref,
		&acct.Profile.ActivityTime, &acct.Profile.DietManagement,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", username, err)
	}
	return &acct, nil
}

// InsertAccount creates the account, its signon row, and its profile
// row. The password is stored as given; hashing happens at the
// authentication boundary, not here.
func (t *Tx) InsertAccount(ctx context.Context, acct *models.Account, password string) error {
	if acct.Username == "" {
		return errors.New("insert account requires a username")
	}

	const insertAccount = `
		INSERT INTO accounts (username, email, first_name, last_name, language_pref, fav_category)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, insertAccount,
		acct.Username, acct.Email, acct.FirstName, acct.LastName,
		acct.LanguagePref, acct.FavCategory); err != nil {
		return fmt.Errorf("insert account %s: %w", acct.Username, err)
	}

	const insertSignon = `INSERT INTO signon (username, password) VALUES (?, ?)`
	if _, err := t.tx.ExecContext(ctx, insertSignon, acct.Username, password); err != nil {
		return fmt.Errorf("insert signon %s: %w", acct.Username, err)
	}

	p := acct.Profile
	const insertProfile = `
		INSERT INTO profiles (username, residence_env, care_period, pet_color_pref,
		                      pet_size_pref, activity_time, diet_management)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, insertProfile,
		acct.Username, p.ResidenceEnv, p.CarePeriod, p.PetColorPref,
		p.PetSizePref, p.ActivityTime, p.DietManagement); err != nil {
		return fmt.Errorf("insert profile %s: %w", acct.Username, err)
	}

	return nil
}

// UpdateAccount updates the identity row and survey profile. The
// password changes only when a non-empty password is supplied; an
// empty password leaves the stored credential untouched.
func (t *Tx) UpdateAccount(ctx context.Context, acct *models.Account, password string) error {
	const updateAccount = `
		UPDATE accounts
		SET email = ?, first_name = ?, last_name = ?, language_pref = ?, fav_category = ?
		WHERE username = ?`
	res, err := t.tx.ExecContext(ctx, updateAccount,
		acct.Email, acct.FirstName, acct.LastName,
		acct.LanguagePref, acct.FavCategory, acct.Username)
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.Username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if password != "" {
		const updateSignon = `UPDATE signon SET password = ? WHERE username = ?`
		if _, err := t.tx.ExecContext(ctx, updateSignon, password, acct.Username); err != nil {
			return fmt.Errorf("update signon %s: %w", acct.Username, err)
		}
	}

	p := acct.Profile
	const updateProfile = `
		UPDATE profiles
		SET residence_env = ?, care_period = ?, pet_color_pref = ?,
		    pet_size_pref = ?, activity_time = ?, diet_management = ?
		WHERE username = ?`
	res, err = t.tx.ExecContext(ctx, updateProfile,
		p.ResidenceEnv, p.CarePeriod, p.PetColorPref,
		p.PetSizePref, p.ActivityTime, p.DietManagement, acct.Username)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", acct.Username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Accounts predating the profile table get a row on first update.
		const insertProfile = `
			INSERT INTO profiles (username, residence_env, care_period, pet_color_pref,
			                      pet_size_pref, activity_time, diet_management)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := t.tx.ExecContext(ctx, insertProfile,
			acct.Username, p.ResidenceEnv, p.CarePeriod, p.PetColorPref,
			p.PetSizePref, p.ActivityTime, p.DietManagement); err != nil {
			return fmt.Errorf("insert profile %s: %w", acct.Username, err)
		}
	}

	return nil
}

// VerifyPassword reports whether the stored credential for username
// matches. Used by the session boundary, not by the API itself.
func (s *Store) VerifyPassword(ctx context.Context, username, password string) (bool, error) {
	const q = `SELECT password FROM signon WHERE username = ?`
	var stored string
	err := s.conn.QueryRowContext(ctx, q, username).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get signon %s: %w", username, err)
	}
	return stored == password, nil
}
