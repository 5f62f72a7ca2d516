package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

var (
	// ErrExceedsRemaining は支援額が残り金額を超えている場合のエラー
	ErrExceedsRemaining = errors.New("pledge exceeds remaining amount")
	// ErrInvalidAmount は支援額が正でない場合のエラー
	ErrInvalidAmount = errors.New("pledge amount must be positive")
	// ErrNotOwner is returned when a non-owner tries to post an update.
	ErrNotOwner = errors.New("only the project owner can post updates")
	// ErrConstraint wraps any other integrity violation reported by the store.
	ErrConstraint = errors.New("constraint violation")
)

// Constraint names raised by the schema in migrations/.
const (
	constraintWithinRemaining = "pledges_within_remaining"
	constraintAmountPositive  = "pledges_amount_positive"
)

// classify はストアのエラー情報（SQLSTATE・制約名・メッセージ）をセンチネルに変換する。
// 該当しない場合は nil を返す
func classify(code, constraint, message string) error {
	mentions := func(name string) bool {
		return constraint == name || strings.Contains(message, name)
	}
	switch {
	case code == "23514" && mentions(constraintWithinRemaining):
		return ErrExceedsRemaining
	case code == "23514" && mentions(constraintAmountPositive):
		return ErrInvalidAmount
	case code == "42501":
		return ErrNotOwner
	case code == "23503", code == "22P02":
		// 外部キー違反・不正な uuid は参照先が存在しないものとして扱う
		return ErrNotFound
	case strings.HasPrefix(code, "23"):
		return fmt.Errorf("%w: %s", ErrConstraint, message)
	}
	return nil
}
