package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

func (a *API) ListGuitars(c *gin.Context) {
	var guitars []models.Guitar
	var err error

	if query := strings.TrimSpace(c.Query("search")); query != "" {
		guitars, err = a.guitars.Search(query)
	} else {
		guitars, err = a.guitars.List()
	}

	if err != nil {
		log.Printf("Error listing guitars: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving guitars"})
		return
	}
	if guitars == nil {
		guitars = []models.Guitar{}
	}
	c.JSON(http.StatusOK, guitars)
}

type createGuitarRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Notes    *string `json:"notes"`
	ImageURL *string `json:"image_url"`
}

func (a *API) CreateGuitar(c *gin.Context) {
	var req createGuitarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	guitarType := models.GuitarOther
	if req.Type != "" {
		if !models.ValidGuitarType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guitar type"})
			return
		}
		guitarType = models.GuitarType(req.Type)
	}

	id, err := a.guitars.Create(store.NewGuitar{
		Name:     name,
		Type:     guitarType,
		Notes:    req.Notes,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		log.Printf("Error creating guitar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating guitar"})
		return
	}

	guitar, err := a.guitars.Get(id)
	if err != nil {
		log.Printf("Error loading created guitar %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading created guitar"})
		return
	}
	c.JSON(http.StatusCreated, guitar)
}

func (a *API) GetGuitar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	guitar, err := a.guitars.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guitar not found"})
			return
		}
		log.Printf("Error retrieving guitar %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving guitar"})
		return
	}
	c.JSON(http.StatusOK, guitar)
}

type updateGuitarRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Notes    *string `json:"notes"`
	ImageURL *string `json:"image_url"`
}

func (a *API) UpdateGuitar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateGuitarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := store.GuitarUpdate{
		Name:     req.Name,
		Notes:    req.Notes,
		ImageURL: req.ImageURL,
	}
	if req.Type != nil {
		if !models.ValidGuitarType(*req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guitar type"})
			return
		}
		guitarType := models.GuitarType(*req.Type)
		update.Type = &guitarType
	}

	if err := a.guitars.Update(id, update); err != nil {
		log.Printf("Error updating guitar %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating guitar"})
		return
	}

	guitar, err := a.guitars.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guitar not found"})
			return
		}
		log.Printf("Error loading updated guitar %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading updated guitar"})
		return
	}
	c.JSON(http.StatusOK, guitar)
}

// DeleteGuitar removes a catalog entry. Songs referencing it keep their
// guitar_id as a dangling soft link; no cascade runs.
func (a *API) DeleteGuitar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.guitars.Delete(id); err != nil {
		log.Printf("Error deleting guitar %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting guitar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
