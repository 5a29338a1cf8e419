package api

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Bio      string `json:"bio"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest is the body for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdateRecipeRequest is the body for PUT /recipes/:id. Absent fields are
// left untouched; identity and ownership are never client-writable.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Servings     *int      `json:"servings"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	Notes        *string   `json:"notes"`
	Public       *bool     `json:"public"`
	PrepTime     *string   `json:"prep_time"`
	Calories     *float64  `json:"calories"`
}

// PostCommentRequest is the body for POST /recipes/:id/comments.
type PostCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ReplyRequest is the body for POST /recipes/:id/comments/:cid/reply.
type ReplyRequest struct {
	Text string `json:"text" binding:"required"`
}

// MealPlanEntryRequest is one entry in POST /auth/meal-plans.
type MealPlanEntryRequest struct {
	RecipeID string `json:"recipe_id" binding:"required,uuid"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Category string `json:"category" binding:"required"`
}

// AddMealPlanRequest is the body for POST /auth/meal-plans.
type AddMealPlanRequest struct {
	Entries []MealPlanEntryRequest `json:"entries" binding:"required,min=1,dive"`
}
