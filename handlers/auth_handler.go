package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/league-system/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginInput struct {
	Code string `json:"code"`
}

// Login godoc
// @Summary Вход администратора
// @Tags auth
// @Description Обменивает код администратора на JWT.
// @Accept json
// @Produce json
// @Param input body loginInput true "Код администратора"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Неверный код"
// @Failure 429 {object} map[string]string "Слишком много попыток"
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.Code = strings.TrimSpace(input.Code)
	if input.Code == "" {
		badRequestResponse(w, r, errors.New("code is required"))
		return
	}

	result, err := h.authService.Login(r.Context(), input.Code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
