package scheduler

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/day-planner/backend/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Scheduler 基于遗传算法把一组任务安排进一个工作日
type Scheduler struct {
	cfg Config
	rng *rand.Rand
}

// New 创建排程引擎，配置不合法时直接返回错误
// 随机源由调用方通过种子显式指定，相同的种子和输入会得到完全相同的结果
func New(cfg Config, seed int64) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Scheduler{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

type scoredCandidate struct {
	candidate *Candidate
	fitness   float64
}

// scorePopulation 并行计算整个种群的适应度
// 适应度是纯函数，个体之间互不影响，可以放心并行
func (s *Scheduler) scorePopulation(pop []*Candidate, tasks []*domain.Task) []scoredCandidate {
	scored := make([]scoredCandidate, len(pop))

	var wg sync.WaitGroup
	for i, c := range pop {
		wg.Add(1)
		go func(i int, c *Candidate) {
			defer wg.Done()
			scored[i] = scoredCandidate{candidate: c, fitness: s.Fitness(c, tasks)}
		}(i, c)
	}
	wg.Wait()

	return scored
}

// Optimize 运行遗传算法，返回最优的候选日程和每一代的适应度统计
func (s *Scheduler) Optimize(tasks []*domain.Task, date time.Time) (*Candidate, []GenerationStat) {
	// 生成初始种群
	pop := make([]*Candidate, s.cfg.PopulationSize)
	for i := range pop {
		pop[i] = s.randomCandidate(tasks, date)
	}

	stats := make([]GenerationStat, 0, s.cfg.Generations)

	// 迭代
	for gen := 0; gen < s.cfg.Generations; gen++ {
		// 评分并按适应度从高到低排序
		scored := s.scorePopulation(pop, tasks)
		sort.Slice(scored, func(i, j int) bool {
			return scored[i].fitness > scored[j].fitness
		})

		fits := make([]float64, len(scored))
		for i, sc := range scored {
			fits[i] = sc.fitness
		}
		stats = append(stats, GenerationStat{
			Generation:  gen,
			BestFitness: scored[0].fitness,
			MeanFitness: stat.Mean(fits, nil),
		})

		// 繁殖
		newPop := make([]*Candidate, 0, s.cfg.PopulationSize)

		// 保留精英，精英个体直接进入下一代
		for _, sc := range scored[:s.cfg.EliteSize] {
			newPop = append(newPop, sc.candidate)
		}

		// 锦标赛选出两个父代，交叉再变异，直到填满新种群
		// 子代的生成必须保持串行，并行会打乱随机数的消费顺序，破坏可复现性
		for len(newPop) < s.cfg.PopulationSize {
			p1 := s.tournament(scored)
			p2 := s.tournament(scored)
			newPop = append(newPop, s.mutate(s.crossover(p1, p2, date)))
		}

		pop = newPop
	}

	// 对最终种群再评一次分，返回最优个体
	scored := s.scorePopulation(pop, tasks)
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].fitness > scored[j].fitness
	})

	return scored[0].candidate, stats
}

// CarryUnfinished 取出日程中所有未完成的任务并把优先级加一（最高加到 5）
// 返回的是拷贝，不会修改原日程里的任务
func (s *Scheduler) CarryUnfinished(current *Candidate) []*domain.Task {
	carried := make([]*domain.Task, 0, len(current.Slots))

	for _, slot := range current.Slots {
		if slot.Kind != SlotTask || slot.Task.Completed {
			continue
		}

		task := *slot.Task
		task.Priority = min(5, task.Priority+1)
		carried = append(carried, &task)
	}

	return carried
}

// RescheduleUnfinished 把当前日程中未完成的任务带到新的一天重新排程
// 和新任务合并后完整地重新优化一遍
func (s *Scheduler) RescheduleUnfinished(current *Candidate, newTasks []*domain.Task, date time.Time) (*Candidate, []GenerationStat) {
	return s.Optimize(append(s.CarryUnfinished(current), newTasks...), date)
}
