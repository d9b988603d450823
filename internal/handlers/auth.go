package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"moegraph/internal/config"
)

// Bangumi OAuth 端点
var bangumiEndpoint = oauth2.Endpoint{
	AuthURL:  "https://bgm.tv/oauth/authorize",
	TokenURL: "https://bgm.tv/oauth/access_token",
}

const bangumiProfileURL = "https://api.bgm.tv/v0/me"

// AuthHandler Bangumi OAuth 登录。薄 I/O 层：换 token、取昵称，
// 然后把 (user_id, nickname) 交还前端，不做会话加密。
type AuthHandler struct {
	oauth       *oauth2.Config
	frontendURL string
	profileURL  string
	client      *http.Client
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.BangumiClientID,
			ClientSecret: cfg.BangumiClientSecret,
			RedirectURL:  cfg.BangumiRedirectURL,
			Endpoint:     bangumiEndpoint,
		},
		frontendURL: cfg.FrontendURL,
		profileURL:  bangumiProfileURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// generateStateToken 生成随机 state token
func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Login 下发 Bangumi 授权地址 (GET /api/auth/login)，前端自行跳转
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateStateToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "生成状态令牌失败"})
		return
	}

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"url": h.oauth.AuthCodeURL(state)})
}

// bangumiProfile /v0/me 响应里用得到的字段
type bangumiProfile struct {
	Nickname string `json:"nickname"`
}

// Callback OAuth 回调 (GET /api/auth/callback)。
// 换取 access token（Bangumi 在 token 响应里带 user_id），
// 再查昵称，302 带参跳回前端。
func (h *AuthHandler) Callback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")
	if savedState != nil {
		if c.Query("state") != savedState.(string) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "无效的状态参数"})
			return
		}
		session.Delete("oauth_state")
		session.Save()
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "未获取到授权码"})
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "获取访问令牌失败"})
		return
	}

	userID := fmt.Sprint(token.Extra("user_id"))
	if userID == "" || userID == "<nil>" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "令牌响应缺少用户 ID"})
		return
	}

	nickname, err := h.fetchNickname(token.AccessToken)
	if err != nil || nickname == "" {
		// 取不到昵称不阻断登录
		nickname = "用户" + userID
	}

	redirect := fmt.Sprintf("%s/?user_id=%s&nickname=%s",
		h.frontendURL, url.QueryEscape(userID), url.QueryEscape(nickname))
	c.Redirect(http.StatusFound, redirect)
}

func (h *AuthHandler) fetchNickname(accessToken string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, h.profileURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile request failed: %d", resp.StatusCode)
	}

	var profile bangumiProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", err
	}
	return profile.Nickname, nil
}
