package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Classification
	}{
		{
			name: "подбор тренировки на группу мышц",
			text: "подбери тренировку на спину",
			want: Classification{
				IsExerciseRequest:  true,
				WantsFullWorkout:   true,
				NeedsClarification: false,
			},
		},
		{
			name: "тренировка без деталей требует уточнения",
			text: "составь тренировку",
			want: Classification{
				IsExerciseRequest:  true,
				WantsFullWorkout:   true,
				NeedsClarification: true,
			},
		},
		{
			name: "вопрос про отдых это не подбор",
			text: "сколько отдыхать между подходами?",
			want: Classification{},
		},
		{
			name: "вопрос про питание это не подбор",
			text: "что есть после тренировки?",
			want: Classification{},
		},
		{
			name: "регистр не влияет",
			text: "ПОДБЕРИ ТРЕНИРОВКУ НА СПИНУ",
			want: Classification{
				IsExerciseRequest:  true,
				WantsFullWorkout:   true,
				NeedsClarification: false,
			},
		},
		{
			name: "упоминание упражнений без глагола действия",
			text: "какие есть упражнения для груди",
			want: Classification{
				IsExerciseRequest:  true,
				WantsFullWorkout:   false,
				NeedsClarification: false,
			},
		},
		{
			name: "склонённая форма тренировки с группой мышц",
			text: "составь мне тренировку на грудь после еды",
			want: Classification{
				IsExerciseRequest:  true,
				WantsFullWorkout:   true,
				NeedsClarification: false,
			},
		},
		{
			name: "вопрос про сон это не подбор",
			text: "сколько нужно спать для восстановления?",
			want: Classification{},
		},
		{
			name: "пустая строка",
			text: "",
			want: Classification{},
		},
		{
			name: "посторонний вопрос",
			text: "какая завтра погода?",
			want: Classification{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}
