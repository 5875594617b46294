package session

import "github.com/fromcord/fromcord/internal/models"

type LoadOutput struct {
	Sessions map[string]*models.Session
}

type SaveInput struct {
	Sessions map[string]*models.Session
}
