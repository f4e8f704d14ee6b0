package repository

import (
	"context"

	"app/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（IDを返す）
	Create(ctx context.Context, user model.User) (int64, error)
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	//店舗作成時にオーナーへ店舗IDを紐づける
	SetRestaurantID(ctx context.Context, userID int64, restaurantID int64) error
}
