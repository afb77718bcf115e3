package userservice

// AdminListResponse модель ответа UserService со списком администраторов
type AdminListResponse struct {
	AdminIDs []int64 `json:"admin_ids"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
