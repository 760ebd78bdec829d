package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// envelope 接口统一响应
type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type tokenPair struct {
	AccessToken string `json:"access_token"`
}

type postView struct {
	ID           int64 `json:"id"`
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base url")
	total := flag.Int("n", 2000, "number of concurrent like requests")
	users := flag.Int("users", 20, "number of distinct users")
	concurrency := flag.Int("c", 200, "max in-flight requests")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	// 1. 注册一批用户
	tokens := make([]string, 0, *users)
	for i := 0; i < *users; i++ {
		token, err := register(client)
		if err != nil {
			fmt.Printf("注册失败: %v\n", err)
			return
		}
		tokens = append(tokens, token)
	}

	// 2. 第一个用户发帖
	postID, err := createPost(client, tokens[0])
	if err != nil {
		fmt.Printf("发帖失败: %v\n", err)
		return
	}
	fmt.Printf("开始压测：%d 个用户对帖子 %d 并发点赞 %d 次...\n", *users, postID, *total)

	// 3. 并发点赞，同一用户重复点赞只计一次
	var ok, failed atomic.Int64
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)
	start := time.Now()
	for i := 0; i < *total; i++ {
		token := tokens[i%len(tokens)]
		g.Go(func() error {
			resp, err := client.R().
				SetAuthToken(token).
				Post(fmt.Sprintf("/post/%d/like", postID))
			if err != nil || resp.IsError() {
				failed.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	duration := time.Since(start)

	// 4. 校验点赞数
	post, err := getPost(client, postID)
	if err != nil {
		fmt.Printf("读取帖子失败: %v\n", err)
		return
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("QPS: %.2f\n", float64(*total)/duration.Seconds())
	fmt.Printf("成功: %d 失败: %d\n", ok.Load(), failed.Load())
	fmt.Printf("点赞数: %d (预期: %d)\n", post.LikeCount, len(tokens))
	fmt.Println("--------------------------------------------------")
	if post.LikeCount != int64(len(tokens)) {
		fmt.Println("点赞数不一致")
	}
}

func register(client *resty.Client) (string, error) {
	login := fmt.Sprintf("%s_%s", strings.ToLower(gofakeit.FirstName()), gofakeit.Numerify("######"))
	var out envelope[tokenPair]
	resp, err := client.R().
		SetBody(map[string]string{
			"login":    login,
			"name":     gofakeit.FirstName() + " " + gofakeit.LastName(),
			"password": gofakeit.Password(true, true, true, false, false, 12),
		}).
		SetResult(&out).
		Post("/auth/register")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode(), out.Message)
	}
	return out.Data.AccessToken, nil
}

func createPost(client *resty.Client, token string) (int64, error) {
	var out envelope[postView]
	resp, err := client.R().
		SetAuthToken(token).
		SetBody(map[string]any{
			"title": fmt.Sprintf("%s %s", gofakeit.City(), gofakeit.Numerify("#####")),
			"text":  gofakeit.FirstName() + " @ " + gofakeit.City(),
		}).
		SetResult(&out).
		Post("/post/add")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode(), out.Message)
	}
	return out.Data.ID, nil
}

func getPost(client *resty.Client, id int64) (*postView, error) {
	var out envelope[postView]
	resp, err := client.R().
		SetResult(&out).
		Get(fmt.Sprintf("/post/%d", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode(), out.Message)
	}
	return &out.Data, nil
}
