package handler_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gigaaura/config"
	"gigaaura/internal/auth"
	"gigaaura/internal/database"
	"gigaaura/internal/localstore"
	"gigaaura/internal/models"
	"gigaaura/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:   "test-secret",
			Expiry:   time.Hour,
			Issuer:   "gigaaura-test",
			NonceTTL: time.Minute,
		},
	}
}

// setupRouterWithDB builds the full API against a per-test in-memory database
// and hands back the database for test seeding.
func setupRouterWithDB(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	cache := localstore.New(t.TempDir())
	engine, _ := router.Setup(testConfig(), db, cache, nil)
	return engine, db
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	engine, _ := setupRouterWithDB(t)
	return engine
}

func httpDo(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, wallet string) string {
	t.Helper()
	cfg := testConfig()
	tok, err := auth.GenerateToken(&cfg.JWT, wallet)
	require.NoError(t, err)
	return tok
}

type pointsResponse struct {
	TotalPoints  int64                `json:"totalPoints"`
	Transactions []models.Transaction `json:"transactions"`
}

func TestGetTransactionsRequiresWallet(t *testing.T) {
	r := setupRouter(t)
	w := httpDo(r, "GET", "/api/transactions", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionsDefaultsForUnseenWallet(t *testing.T) {
	r := setupRouter(t)
	w := httpDo(r, "GET", "/api/transactions?walletAddress=fresh", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(100), resp.TotalPoints)
	require.Empty(t, resp.Transactions)
}

func TestPostTransactionValidation(t *testing.T) {
	r := setupRouter(t)

	w := httpDo(r, "POST", "/api/transactions", "", map[string]interface{}{
		"transaction": map[string]interface{}{"action": "like_received"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/api/transactions", "", map[string]interface{}{
		"walletAddress": "W1",
		"transaction":   map[string]interface{}{},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/api/transactions", "", map[string]interface{}{
		"walletAddress": "W1",
		"transaction":   map[string]interface{}{"action": "not_an_action"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreditScenario(t *testing.T) {
	r := setupRouter(t)

	w := httpDo(r, "POST", "/api/transactions", "", map[string]interface{}{
		"walletAddress": "W1",
		"transaction":   map[string]interface{}{"id": "t1", "amount": 5, "action": "like_received"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "POST", "/api/transactions", "", map[string]interface{}{
		"walletAddress": "W1",
		"transaction":   map[string]interface{}{"id": "t2", "amount": 50, "action": "post_created"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "GET", "/api/transactions?walletAddress=W1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(155), resp.TotalPoints)
	require.Len(t, resp.Transactions, 2)
	require.Equal(t, "t2", resp.Transactions[0].ID)
	require.Equal(t, "t1", resp.Transactions[1].ID)
}

func TestCreditAfterRestartKeepsStoredHistory(t *testing.T) {
	r, db := setupRouterWithDB(t)
	// simulate a wallet whose state survived a restart only in the database
	row := models.AuraPoints{
		WalletAddress: "W1",
		Points:        500,
		Transactions: models.TransactionList{
			{ID: "old", Amount: 400, Action: "post_created", Timestamp: "2024-01-01T00:00:00Z"},
		},
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&row).Error)

	w := httpDo(r, "POST", "/api/transactions", "", map[string]interface{}{
		"walletAddress": "W1",
		"transaction":   map[string]interface{}{"id": "t1", "amount": 5, "action": "like_received"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "GET", "/api/transactions?walletAddress=W1", "", nil)
	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(505), resp.TotalPoints)
	require.Len(t, resp.Transactions, 2)
	require.Equal(t, "t1", resp.Transactions[0].ID)
	require.Equal(t, "old", resp.Transactions[1].ID)
}

func TestCreditDuplicateIDDoesNotDoubleCount(t *testing.T) {
	r := setupRouter(t)
	body := map[string]interface{}{
		"walletAddress": "W1",
		"transaction":   map[string]interface{}{"id": "t1", "amount": 5, "action": "like_received"},
	}
	httpDo(r, "POST", "/api/transactions", "", body)
	httpDo(r, "POST", "/api/transactions", "", body)

	w := httpDo(r, "GET", "/api/transactions?walletAddress=W1", "", nil)
	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(105), resp.TotalPoints)
	require.Len(t, resp.Transactions, 1)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	r := setupRouter(t)
	w := httpDo(r, "POST", "/api/posts", "", map[string]interface{}{"content": "gm"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostAwardsAura(t *testing.T) {
	r := setupRouter(t)
	token := tokenFor(t, "W1")

	w := httpDo(r, "POST", "/api/posts", token, map[string]interface{}{"content": "gm gigaaura"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Success bool        `json:"success"`
		Post    models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.Post.ID)

	w = httpDo(r, "GET", "/api/transactions?walletAddress=W1", "", nil)
	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(150), resp.TotalPoints)
	require.Equal(t, "post_created", resp.Transactions[0].Action)
}

func TestLikeAwardsAuthorAndNotifies(t *testing.T) {
	r := setupRouter(t)
	authorToken := tokenFor(t, "AUTHOR")
	likerToken := tokenFor(t, "LIKER")

	w := httpDo(r, "POST", "/api/posts", authorToken, map[string]interface{}{"content": "like me"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httpDo(r, "PUT", "/api/posts/"+created.Post.ID, likerToken, map[string]interface{}{"op": "like"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Success bool        `json:"success"`
		Post    models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.True(t, updated.Success)
	require.Equal(t, 1, updated.Post.Likes)

	// author: 100 grant + 50 post_created + 5 like_received
	w = httpDo(r, "GET", "/api/transactions?walletAddress=AUTHOR", "", nil)
	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(155), resp.TotalPoints)

	w = httpDo(r, "GET", "/api/notifications", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notifs struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifs))
	require.Len(t, notifs.Notifications, 1)
	require.Equal(t, "like", notifs.Notifications[0].Type)
}

func TestLikeTwiceIsIdempotent(t *testing.T) {
	r := setupRouter(t)
	authorToken := tokenFor(t, "AUTHOR")
	likerToken := tokenFor(t, "LIKER")

	w := httpDo(r, "POST", "/api/posts", authorToken, map[string]interface{}{"content": "like me"})
	var created struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	httpDo(r, "PUT", "/api/posts/"+created.Post.ID, likerToken, map[string]interface{}{"op": "like"})
	httpDo(r, "PUT", "/api/posts/"+created.Post.ID, likerToken, map[string]interface{}{"op": "like"})

	w = httpDo(r, "GET", "/api/posts/"+created.Post.ID, "", nil)
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.Equal(t, 1, post.Likes)
}

func TestProfileLifecycle(t *testing.T) {
	r := setupRouter(t)
	token := tokenFor(t, "W1")

	w := httpDo(r, "GET", "/api/profile?walletAddress=W1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, "W1", u.WalletAddress)
	require.Empty(t, u.Username)

	w = httpDo(r, "PUT", "/api/profile", token, map[string]interface{}{"username": "aura_fan", "bio": "gm"})
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(r, "GET", "/api/profile?walletAddress=W1", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, "aura_fan", u.Username)
	require.Equal(t, "gm", u.Bio)
}

func TestFollowAwardsBothSides(t *testing.T) {
	r := setupRouter(t)
	token := tokenFor(t, "FOLLOWER")

	w := httpDo(r, "POST", "/api/profile/follow/TARGET", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(r, "GET", "/api/transactions?walletAddress=TARGET", "", nil)
	var resp pointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(120), resp.TotalPoints, "target gains follower_gained")

	w = httpDo(r, "GET", "/api/transactions?walletAddress=FOLLOWER", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(110), resp.TotalPoints, "follower gains follow_given")

	// second follow is a no-op
	httpDo(r, "POST", "/api/profile/follow/TARGET", token, nil)
	w = httpDo(r, "GET", "/api/transactions?walletAddress=TARGET", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(120), resp.TotalPoints)
}

func TestWalletLoginFlow(t *testing.T) {
	r := setupRouter(t)
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := base58.Encode(pub)

	w := httpDo(r, "POST", "/api/auth/nonce", "", map[string]interface{}{"walletAddress": wallet})
	require.Equal(t, http.StatusOK, w.Code)
	var nonceResp struct {
		Nonce   string `json:"nonce"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nonceResp))
	require.NotEmpty(t, nonceResp.Message)

	sig := ed25519.Sign(priv, []byte(nonceResp.Message))
	w = httpDo(r, "POST", "/api/auth/wallet", "", map[string]interface{}{
		"walletAddress": wallet,
		"signature":     base58.Encode(sig),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var loginResp struct {
		Token       string `json:"token"`
		TotalPoints int64  `json:"totalPoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	require.Equal(t, int64(100), loginResp.TotalPoints)

	w = httpDo(r, "GET", "/api/session", loginResp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWalletLoginRejectsBadSignature(t *testing.T) {
	r := setupRouter(t)
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := base58.Encode(pub)

	httpDo(r, "POST", "/api/auth/nonce", "", map[string]interface{}{"walletAddress": wallet})
	w := httpDo(r, "POST", "/api/auth/wallet", "", map[string]interface{}{
		"walletAddress": wallet,
		"signature":     base58.Encode(make([]byte, ed25519.SignatureSize)),
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w := httpDo(r, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
