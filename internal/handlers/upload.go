package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	appConfig "github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20 // 10 MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// -- Helpers -- //

func getS3Client() (*s3.Client, error) {
	cfg := appConfig.AppConfig
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// -- Handlers -- //

func UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		// Frontend sometimes posts under "image"
		file, header, err = c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid file field found"})
			return
		}
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[strings.ToLower(contentType)] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image uploads are allowed"})
		return
	}

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s/%s%s", c.DefaultQuery("folder", "uploads"), utils.GenerateID(), ext)

	client, err := getS3Client()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to init storage client"})
		return
	}

	cfg := appConfig.AppConfig
	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(cfg.R2BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	publicURL := cfg.R2PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
	}

	fullURL := fmt.Sprintf("%s/%s", publicURL, key)

	c.JSON(http.StatusOK, gin.H{
		"url":      fullURL,
		"key":      key,
		"mimetype": contentType,
		"size":     header.Size,
	})
}

// Wrappers pinning the destination folder
func UploadResourcePhoto(c *gin.Context) {
	c.Request.URL.RawQuery = "folder=borrowbase/resources"
	UploadFile(c)
}

func UploadAvatar(c *gin.Context) {
	c.Request.URL.RawQuery = "folder=borrowbase/avatars"
	UploadFile(c)
}

func UploadChatAttachment(c *gin.Context) {
	c.Request.URL.RawQuery = "folder=borrowbase/chat"
	UploadFile(c)
}
