package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/seed"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var userID int64
	var date string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机任务, 3: 从 csv 导入任务)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&userID, "user-id", 0, "任务所属的用户 ID")
	flag.StringVar(&date, "date", time.Now().Format("2006-01-02"), "任务所属的日期")
	flag.StringVar(&file, "file", "", "要导入的 csv 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if userID <= 0 {
			slog.Error("请输入合法的用户 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的任务数量")
			return
		}

		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			slog.Error("日期格式无效", slog.String("date", date))
			return
		}

		tasks := make([]*domain.Task, 0, n)
		for i := 0; i < n; i++ {
			tasks = append(tasks, utils.GenerateRandomTask(userID, day))
		}

		if err := repo.UpsertTasks(tasks); err != nil {
			slog.Error("无法插入任务", slog.String("error", err.Error()))
			return
		}

		slog.Info("插入任务成功", slog.Int("count", len(tasks)))
	case 3:
		if userID <= 0 {
			slog.Error("请输入合法的用户 ID")
			return
		}
		if file == "" {
			slog.Error("请指定要导入的 csv 文件")
			return
		}

		seed.SeedTasksFromCSV(repo, userID, date, file)
	default:
		slog.Error("指定的操作非法")
	}
}
