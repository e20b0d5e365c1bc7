package api

import (
	"net/http"
	"strconv"
	"strings"

	"hackshare/internal/auth"
	"hackshare/internal/hack"
	"hackshare/internal/validate"

	"github.com/gin-gonic/gin"
)

func currentViewer(c *gin.Context) viewer {
	id, _ := auth.CallerID(c)
	return viewer{id: id, admin: auth.CallerIsAdmin(c)}
}

// respondHack writes {"hack": view} or {"hack": null}.
func respondHack(c *gin.Context, svc *Services, status int, h *hack.Hack) {
	view, err := buildView(c.Request.Context(), loadersFor(c, svc), currentViewer(c), h)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"hack": view})
}

func respondPage(c *gin.Context, svc *Services, q hack.ListQuery) {
	ctx := c.Request.Context()
	page, err := svc.Hacks.List(ctx, q)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := buildViews(ctx, loadersFor(c, svc), currentViewer(c), page.Hacks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageView{Hacks: views, HasMore: page.HasMore, NextCursor: page.NextCursor})
}

// parseListQuery reads the paging and filter parameters shared by the list
// endpoints.
func parseListQuery(c *gin.Context) (hack.ListQuery, error) {
	var errs validate.Errors
	q := hack.ListQuery{
		Search: strings.TrimSpace(c.Query("q")),
		Cursor: c.Query("cursor"),
	}
	if raw := c.Query("category"); raw != "" {
		q.Category = hack.Category(raw)
		if !q.Category.Valid() {
			errs.Add("category", "unknown category")
		}
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs.Add("limit", "limit must be a positive integer")
		}
		q.Limit = n
	}
	return q, errs.OrNil()
}

// POST /hacks
func CreateHackHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _ := auth.CallerID(c)
		var in hack.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		h, err := svc.Hacks.Create(c.Request.Context(), callerID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		respondHack(c, svc, http.StatusCreated, h)
	}
}

// PATCH /hacks/:id
func ProposeUpdateHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _ := auth.CallerID(c)
		var patch hack.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		h, err := svc.Hacks.ProposeUpdate(c.Request.Context(), callerID, c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		respondHack(c, svc, http.StatusOK, h)
	}
}

// POST /hacks/:id/verify  [admin only]
func VerifyHackHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _ := auth.CallerID(c)
		h, err := svc.Hacks.Verify(c.Request.Context(), callerID, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondHack(c, svc, http.StatusOK, h)
	}
}

// POST /hacks/:id/verify-update  [admin only]
func VerifyUpdateHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _ := auth.CallerID(c)
		h, err := svc.Hacks.VerifyUpdate(c.Request.Context(), callerID, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondHack(c, svc, http.StatusOK, h)
	}
}

// DELETE /hacks/:id
func DeleteHackHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _ := auth.CallerID(c)
		deleted, err := svc.Hacks.Delete(c.Request.Context(), callerID, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

// GET /hacks/:id
// Unverified hacks are only visible to their creator and to admins.
func GetHackHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, err := svc.Hacks.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if h != nil && !h.Verified && !currentViewer(c).seesPendingEdit(h) {
			h = nil
		}
		respondHack(c, svc, http.StatusOK, h)
	}
}

// GET /hacks
func ListHacksHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		verified := true
		q.Verified = &verified
		respondPage(c, svc, q)
	}
}

// GET /hacks/unverified  [admin only]
func ListUnverifiedHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		verified := false
		q.Verified = &verified
		respondPage(c, svc, q)
	}
}

// GET /hacks/all  [admin only]
func ListAllHacksHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		q.VerifiedFirst = true
		respondPage(c, svc, q)
	}
}

// GET /hacks/mine
func ListMyHacksHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		q.CreatorID, _ = auth.CallerID(c)
		respondPage(c, svc, q)
	}
}

// GET /users/:id/hacks
// Other viewers only see the creator's verified hacks.
func ListUserHacksHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		q.CreatorID = c.Param("id")
		v := currentViewer(c)
		if !v.admin && v.id != q.CreatorID {
			verified := true
			q.Verified = &verified
		}
		respondPage(c, svc, q)
	}
}
