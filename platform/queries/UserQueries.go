package queries

import (
	"github.com/go-pg/pg/v10"

	"github.com/marblecore/bluemarble-backend/app/models"
)

func GetUserData(user_id string, db *pg.DB) (*models.User, error) {
	user := &models.User{Id: user_id}
	err := db.Model(user).WherePK().Select()
	return user, err
}
