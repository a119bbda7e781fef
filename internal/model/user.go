package model

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	TotalPoints   int64  `json:"total_points"`
	MonthlyPoints int64  `json:"monthly_points"`
}

type CreateUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type CreateUserResponse struct {
	ID string `json:"id"`
}

type GetUserRequest struct {
	ID string `json:"id" form:"id"`
}

type GetUserResponse struct {
	User
}
