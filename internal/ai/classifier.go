// Package ai реализует мост к LLM-провайдерам и эвристический
// классификатор запросов пользователя: определение, просит ли пользователь
// подобрать упражнения, и маршрутизация между структурированным промптом
// подбора и свободным чатом.
package ai

import (
	"regexp"
	"strings"
)

// Classification результат классификации пользовательского запроса.
type Classification struct {
	IsExerciseRequest  bool // Запрос на подбор упражнений или тренировки
	WantsFullWorkout   bool // Просит составить тренировку целиком
	NeedsClarification bool // Нужно уточнение: тренировка без деталей
}

// Словари распознавания. Порядок проверок фиксирован: лексика питания,
// восстановления и травм перекрывает тренировочную, кроме случая
// "тренировка на/для <группа мышц>", который перекрывает и её.
var (
	// \b в regexp работает только для ASCII, поэтому границы русских слов
	// задаются пробелами и началом строки.
	nutritionRe = regexp.MustCompile(`питани|питат|еда|еды|(^|\s)есть(\s|\?|!|,|\.|$)|кушать|поесть|съесть|калори|белк|углевод|жиры|диет|рацион|добавк|протеин|витамин`)
	recoveryRe  = regexp.MustCompile(`отдых|восстановлен|восстанавл|(^|\s)сон|спать|высыпа|болит|болев|боль в|боли в|травм|растяжени|разминк|заминк`)
	exerciseRe  = regexp.MustCompile(`упражнени|тренировк|тренироват|воркаут|workout|подход|комплекс`)
	actionRe    = regexp.MustCompile(`состав|подбер|подобрать|создай|сделай|собери|предложи`)

	muscleGroupRe = regexp.MustCompile(`спин|груд|ног|плеч|рук|бицепс|трицепс|пресс|ягодиц|икр|дельт|трапеци|предплечь`)
	levelRe       = regexp.MustCompile(`новичок|новичк|начинающ|продвинут|опытн|средн`)
	goalRe        = regexp.MustCompile(`похуд|масс|сил[аыу]|вынослив|рельеф|тонус`)

	// \w тоже только ASCII, окончания русских слов матчатся явным классом.
	workoutForGroupRe = regexp.MustCompile(`(тренировк[а-яё]*|комплекс[а-яё]*|упражнени[а-яё]*)\s+(на|для)\s+`)
)

// Classify классифицирует текст пользовательского запроса.
// Это эвристика на регулярных выражениях, а не строгий алгоритм:
// результат определяется словарями и фиксированным приоритетом проверок.
func Classify(userText string) Classification {
	text := strings.ToLower(userText)

	nutrition := nutritionRe.MatchString(text)
	recovery := recoveryRe.MatchString(text)
	workoutForGroup := workoutForGroupRe.MatchString(text) && muscleGroupRe.MatchString(text)

	// Лексика питания/восстановления перекрывает тренировочную,
	// кроме явного "тренировка на <группу мышц>".
	if (nutrition || recovery) && !workoutForGroup {
		return Classification{}
	}

	isExercise := exerciseRe.MatchString(text) || workoutForGroup
	if !isExercise {
		return Classification{}
	}

	hasDetail := muscleGroupRe.MatchString(text) || levelRe.MatchString(text) || goalRe.MatchString(text)
	wantsFullWorkout := actionRe.MatchString(text) && (!nutrition || hasDetail)

	return Classification{
		IsExerciseRequest:  true,
		WantsFullWorkout:   wantsFullWorkout,
		NeedsClarification: wantsFullWorkout && !hasDetail,
	}
}
