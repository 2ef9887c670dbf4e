package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram/global"
	"foodgram/models"

	"gorm.io/gorm"
)

// Subscribe makes userID follow authorID and returns the author.
func Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	author, err := GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	db := global.Db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Subscription{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadySubscribed
	}
	if err := db.Create(&models.Subscription{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	publish(ctx, Event{Type: EventSubscriptionAdded, UserID: userID, TargetUserID: authorID})
	return author, nil
}

func Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := GetUser(ctx, authorID); err != nil {
		return err
	}
	res := global.Db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("unsubscribe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotSubscribed
	}

	publish(ctx, Event{Type: EventSubscriptionRemoved, UserID: userID, TargetUserID: authorID})
	return nil
}

// ListSubscriptions returns the authors userID follows, most recent subscription first.
func ListSubscriptions(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	db := global.Db.WithContext(ctx)
	followed := func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var count int64
	if err := db.Model(&models.User{}).Scopes(followed).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var authors []models.User
	err := db.Scopes(followed).
		Order("subscriptions.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&authors).Error
	return authors, count, err
}

// SubscribedTo reports which of authorIDs userID follows.
func SubscribedTo(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := global.Db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
