package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/platera-api/internal/domain/repository"
	"github.com/yourusername/platera-api/internal/handler/dto"
	"github.com/yourusername/platera-api/internal/middleware"
	"github.com/yourusername/platera-api/internal/service"
)

// UserHandler handles the current user's profile and dashboard.
type UserHandler struct {
	recipeService *service.RecipeService
	savedService  *service.SavedRecipeService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(recipeService *service.RecipeService, savedService *service.SavedRecipeService) *UserHandler {
	return &UserHandler{
		recipeService: recipeService,
		savedService:  savedService,
	}
}

// GetMe returns the resolved account of the current session.
// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

// Dashboard returns the current user's own recipes with stats plus bookmarks.
// GET /api/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	recipes, err := h.recipeService.ListByAuthor(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	saved, err := h.savedService.ListSaved(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Recipes:     recipes,
		RecipeCount: len(recipes),
		Saved:       saved,
		SavedCount:  len(saved),
	})
}

// ExportDashboard exports the current user's recipes with stats as XLSX.
// GET /api/dashboard/export
func (h *UserHandler) ExportDashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	recipes, err := h.recipeService.ListByAuthor(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("recipes_%s", time.Now().Format("2006-01-02"))
	h.exportXLSX(c, recipes, filename)
}

// exportXLSX streams the recipe rows into an Excel workbook.
func (h *UserHandler) exportXLSX(c *gin.Context, recipes []repository.RecipeFeedItem, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Recipes"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[UserHandler] Failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Title", "Category", "Servings", "Total Time (min)", "Avg Rating", "Reviews", "Comments", "Created"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[UserHandler] Failed to write headers: %v", err)
	}

	for i, r := range recipes {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(r.Title),
			r.Category,
			r.Servings,
			r.TotalTimeMin,
			r.AvgRating,
			r.ReviewCount,
			r.CommentCount,
			r.CreatedAt.Format("2006-01-02"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[UserHandler] Failed to write row %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[UserHandler] Failed to flush stream writer: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[UserHandler] Failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel guards against formula injection in exported cells.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
