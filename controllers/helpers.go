package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

// currentUser resolves the authenticated user or writes a 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return userID, true
}

// paramID parses a uuid path parameter or writes a 400.
func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		utils.RespondWithAppError(c, utils.BindingErrors(err))
		return false
	}
	return true
}

// bindForm binds JSON bodies and multipart forms alike.
func bindForm(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBind(input); err != nil {
		utils.RespondWithAppError(c, utils.BindingErrors(err))
		return false
	}
	return true
}

// bindPayload decodes a JSON body, or a multipart form whose "payload" field holds the JSON
// next to the uploaded files.
func bindPayload(c *gin.Context, input interface{}) bool {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return bindJSON(c, input)
	}
	if err := json.Unmarshal([]byte(c.PostForm("payload")), input); err != nil {
		utils.RespondWithAppError(c, utils.BadRequest("Invalid input: "+err.Error()))
		return false
	}
	if err := binding.Validator.ValidateStruct(input); err != nil {
		utils.RespondWithAppError(c, utils.BindingErrors(err))
		return false
	}
	return true
}

// bindDocument binds a sales or purchase document and stores its e-signature image, if any.
func bindDocument(c *gin.Context, input interface{}, doc *services.DocumentInput, uploads *utils.Uploads) bool {
	if !bindPayload(c, input) {
		return false
	}
	path, err := uploads.Save(c, "signatureImage", "signatures")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return false
	}
	doc.SignatureImage = path
	return true
}

func presenterOptions() presenters.Options {
	return presenters.Options{BaseURL: config.App.PublicBaseURL, Placeholder: config.App.PlaceholderImage}
}

// listFilter reads ?search=&status=&from=&to= shared by document lists. partyParam names the
// query parameter holding the customer or vendor id.
func listFilter(c *gin.Context, partyParam string) (services.ListFilter, bool) {
	var f services.ListFilter
	f.Search, _ = utils.SearchPattern(c)
	f.Status = c.Query("status")
	if raw := c.Query(partyParam); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+partyParam)
			return f, false
		}
		f.PartyID = &id
	}
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := utils.ParseDateKey(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+key+" date, expected YYYY-MM-DD")
			return f, false
		}
		*dst = &t
	}
	return f, true
}
