package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleMember,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var taskNamePool = []string{
	"写周报", "整理邮件", "准备分享材料", "代码评审", "修复线上问题",
	"需求评审会", "更新项目文档", "面试候选人", "跟进客户反馈", "学习新框架",
	"整理会议纪要", "优化查询性能", "排查告警", "补充单元测试", "回复工单",
}

var taskDurationPool = []int32{15, 30, 45, 60, 90, 120}

var preferredTimePool = []domain.PreferredTime{
	domain.PreferredTimeMorning,
	domain.PreferredTimeAfternoon,
	domain.PreferredTimeEvening,
}

// 随机生成一个当天的任务
func GenerateRandomTask(userID int64, date time.Time) *domain.Task {
	task := &domain.Task{
		ID:       uuid.NewString(),
		UserID:   userID,
		Date:     date.Format("2006-01-02"),
		Name:     taskNamePool[rand.Intn(len(taskNamePool))],
		Duration: taskDurationPool[rand.Intn(len(taskDurationPool))],
		Priority: int32(rand.Intn(5) + 1),
	}

	// 一部分任务带截止时间，截止时间落在当天 14 点到 20 点之间
	if rand.Intn(10) < 3 {
		deadline := time.Date(date.Year(), date.Month(), date.Day(), 14+rand.Intn(7), 0, 0, 0, date.Location())
		task.Deadline = &deadline
	}

	// 一部分任务带偏好时段
	if rand.Intn(10) < 4 {
		task.PreferredTime = preferredTimePool[rand.Intn(len(preferredTimePool))]
	}

	return task
}
