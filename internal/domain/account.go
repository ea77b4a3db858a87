package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Account struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"               json:"id"`
	Email            string             `bson:"email"                       json:"email"`
	Name             string             `bson:"name"                        json:"name"`
	PasswordHash     string             `bson:"password_hash"               json:"-"`
	ProfileImageURL  string             `bson:"profile_image_url,omitempty" json:"profileImage"`
	Verified         bool               `bson:"verified"                    json:"verified"`
	VerificationCode string             `bson:"verification_code,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"created_at"                  json:"created_at"`
}

// View is the account as it may leave the service: no hash, no code.
type View struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

func (a *Account) View() View {
	return View{
		ID:           a.ID.Hex(),
		Name:         a.Name,
		Email:        a.Email,
		ProfileImage: a.ProfileImageURL,
	}
}
