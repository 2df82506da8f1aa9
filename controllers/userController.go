package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/balamurugesan03/Kotbilling/database"
	helper "github.com/balamurugesan03/Kotbilling/helpers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
	"github.com/go-playground/validator"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")
var validate = validator.New()

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		log.Panic(err)
	}
	return string(bytes)
}

func VerifyPassword(userPassword string, providedPassword string) (bool, string) {
	err := bcrypt.CompareHashAndPassword([]byte(providedPassword), []byte(userPassword))
	if err != nil {
		return false, "email or password is incorrect"
	}
	return true, ""
}

// SignUp registers a staff account.
// POST /users/signup
func SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(user); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		count, err := userCollection.CountDocuments(ctx, bson.M{"email": user.Email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while checking for the email"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "this email already exists"})
			return
		}

		password := HashPassword(*user.Password)
		user.Password = &password
		user.ID = primitive.NewObjectID()
		user.User_id = user.ID.Hex()
		user.Is_active = true
		user.Created_at = time.Now().UTC()
		user.Updated_at = user.Created_at

		token, refreshToken, err := helper.GenerateAllTokens(*user.Email, *user.Name, user.User_id, *user.User_role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while generating tokens"})
			return
		}
		user.Token = &token
		user.Refresh_Token = &refreshToken

		if _, err := userCollection.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user item was not created"})
			return
		}
		user.Password = nil
		c.JSON(http.StatusCreated, user)
	}
}

// Login authenticates a staff account and rotates its tokens.
// POST /users/login
func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req models.User
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		err := userCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "email or password is incorrect"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching user"})
			return
		}
		if !user.Is_active {
			c.JSON(http.StatusForbidden, gin.H{"message": "account is deactivated"})
			return
		}

		passwordIsValid, msg := VerifyPassword(*req.Password, *user.Password)
		if !passwordIsValid {
			c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		token, refreshToken, err := helper.GenerateAllTokens(*user.Email, *user.Name, user.User_id, *user.User_role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while generating tokens"})
			return
		}
		if err := helper.UpdateAllTokens(ctx, token, refreshToken, user.User_id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating tokens"})
			return
		}
		user.Token = &token
		user.Refresh_Token = &refreshToken
		user.Password = nil

		c.JSON(http.StatusOK, gin.H{
			"user":        user,
			"permissions": middleware.PermissionsForRole(*user.User_role),
		})
	}
}

// GetUsers lists staff accounts.
// GET /api/users (manage_users).
func GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := userCollection.Find(ctx, bson.M{},
			options.Find().
				SetProjection(bson.M{"password": 0, "token": 0, "refresh_token": 0}).
				SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing users"})
			return
		}
		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GetUser fetches one staff account. Non-admins can only fetch themselves.
// GET /api/users/:user_id
func GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userID := c.Param("user_id")
		if role := c.GetString("user_role"); role != models.RoleAdmin && c.GetString("uid") != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "access denied"})
			return
		}

		var user models.User
		err := userCollection.FindOne(ctx, bson.M{"user_id": userID},
			options.FindOne().SetProjection(bson.M{"password": 0, "token": 0, "refresh_token": 0}),
		).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
