package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

func debitNoteService() *services.DebitNoteService {
	return services.NewDebitNoteService(config.DB)
}

func CreateDebitNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.DebitNoteInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	note, err := debitNoteService().Create(c.Request.Context(), userID, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	c.JSON(http.StatusCreated, presenters.DebitNote(note, presenterOptions()))
}

func GetDebitNotes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c, "vendorId")
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	notes, total, err := debitNoteService().List(c.Request.Context(), userID, f, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.DebitNotes(notes, presenterOptions()), total, p))
}

func GetDebitNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "debit note")
	if !ok {
		return
	}

	note, err := debitNoteService().Get(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.DebitNote(note, presenterOptions()))
}

func UpdateDebitNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "debit note")
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.DebitNoteInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	note, obsolete, err := debitNoteService().Update(c.Request.Context(), userID, id, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Replace(obsolete)
	uploads.Commit()

	c.JSON(http.StatusOK, presenters.DebitNote(note, presenterOptions()))
}

// UpdateDebitNoteStatus approves or rejects a pending debit note. Approval ships the
// returned goods out of stock.
func UpdateDebitNoteStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "debit note")
	if !ok {
		return
	}

	var input StatusInput
	if !bindJSON(c, &input) {
		return
	}

	note, err := debitNoteService().UpdateStatus(c.Request.Context(), userID, id, input.Status)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.DebitNote(note, presenterOptions()))
}

func DeleteDebitNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "debit note")
	if !ok {
		return
	}

	if err := debitNoteService().Delete(c.Request.Context(), userID, id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Debit note deleted successfully"})
}
