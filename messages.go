package main

// User-visible messages. The frontend shows these verbatim, so they live in
// one place. Note the credential failure never says whether the email exists.
const (
	msgLoginRequired      = "請先登入"
	msgSessionExpired     = "登入已過期，請重新登入"
	msgForbidden          = "權限不足"
	msgInvalidCredentials = "電子郵件或密碼錯誤"
	msgAccountDisabled    = "帳號已停用或不存在"
	msgLogoutSuccess      = "登出成功"
	msgRefreshSuccess     = "更新成功"
	msgBadRequest         = "請求格式錯誤"
	msgInternalError      = "伺服器錯誤"
	msgNotFound           = "資料不存在"
)
