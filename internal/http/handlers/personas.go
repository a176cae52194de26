package handlers

import (
	"net/http"
	"sort"

	"liars_dice/internal/domain"

	"github.com/gin-gonic/gin"
)

// PersonaResponse is one opponent's remembered history.
type PersonaResponse struct {
	Name              string              `json:"name"`
	Stats             domain.PersonaStats `json:"stats"`
	BluffRate         float64             `json:"bluff_rate"`
	BluffSuccessRate  float64             `json:"bluff_success_rate"`
	DefendSuccessRate float64             `json:"defend_success_rate"`
}

func personaResponse(name string, st domain.PersonaStats) PersonaResponse {
	w := domain.Blend(nil, domain.Memory{name: st}, name, 1)
	return PersonaResponse{
		Name:              name,
		Stats:             st,
		BluffRate:         w.BluffRate(),
		BluffSuccessRate:  w.BluffSuccessRate(),
		DefendSuccessRate: w.DefendSuccessRate(),
	}
}

// ListPersonas returns every remembered persona, sorted by name.
func (h *Handler) ListPersonas(c *gin.Context) {
	mem, err := h.Personas.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load personas"})
		return
	}

	out := make([]PersonaResponse, 0, len(mem))
	for name, st := range mem {
		out = append(out, personaResponse(name, st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	c.JSON(http.StatusOK, gin.H{"personas": out})
}

// GetPersona returns one persona, 404 when it has never played.
func (h *Handler) GetPersona(c *gin.Context) {
	name := c.Param("name")
	mem, err := h.Personas.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load personas"})
		return
	}
	st, ok := mem[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "persona not found"})
		return
	}
	c.JSON(http.StatusOK, personaResponse(name, st))
}

// ListDefeated returns the opponents beaten at a difficulty, oldest first.
func (h *Handler) ListDefeated(c *gin.Context) {
	d, err := domain.ParseDifficulty(c.Param("difficulty"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	names, err := h.Defeated.List(c.Request.Context(), d)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load defeated list"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"difficulty": d, "defeated": names})
}
