package api

import (
	"github.com/jswierad/memodeck/internal/db"
	"github.com/jswierad/memodeck/internal/services"
)

type Server struct {
	UserService   services.UserService
	CardService   services.CardService
	ReviewService services.ReviewService
	DB            *db.DB
	DefaultGrade  int
}
