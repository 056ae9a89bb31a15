package devserver

import (
	"fmt"
	"strings"

	"github.com/abhisek/careercoach/internal/api"
)

var questionTopics = []string{
	"data science",
	"machine learning",
	"deep learning",
	"statistics",
	"data engineering",
	"AI ethics",
}

// questionBank holds a few canned questions per topic. Answers are 1-based
// option positions.
var questionBank = map[string][]api.Question{
	"data science": {
		{
			Question:      "Which step usually comes first in a data science project?",
			Options:       []string{"Model deployment", "Problem definition", "Hyperparameter tuning", "A/B testing"},
			CorrectAnswer: "2",
			Explanation:   "You need a clear **problem definition** before collecting data or building models.",
		},
		{
			Question:      "What does EDA stand for?",
			Options:       []string{"Exploratory Data Analysis", "Extended Data Architecture", "Estimated Data Accuracy", "Encoded Data Aggregation"},
			CorrectAnswer: "1",
			Explanation:   "**Exploratory Data Analysis** summarises a dataset's main characteristics, often visually.",
		},
	},
	"machine learning": {
		{
			Question:      "Which of these is a supervised learning task?",
			Options:       []string{"Clustering customers", "Dimensionality reduction", "Predicting house prices", "Anomaly detection without labels"},
			CorrectAnswer: "3",
			Explanation:   "Predicting prices from labelled examples is **regression**, a supervised task.",
		},
		{
			Question:      "What is overfitting?",
			Options:       []string{"A model too simple for the data", "A model that memorises training data and generalises poorly", "Training for too few epochs", "Using too little memory"},
			CorrectAnswer: "2",
			Explanation:   "An overfit model has low training error but high error on unseen data.",
		},
	},
	"deep learning": {
		{
			Question:      "Which activation function outputs values between 0 and 1?",
			Options:       []string{"ReLU", "Tanh", "Sigmoid", "Leaky ReLU"},
			CorrectAnswer: "3",
			Explanation:   "The **sigmoid** squashes inputs into the (0, 1) range.",
		},
		{
			Question:      "What does a convolutional layer primarily learn?",
			Options:       []string{"Local spatial features", "Word frequencies", "Sequence lengths", "Learning rates"},
			CorrectAnswer: "1",
			Explanation:   "Convolution filters detect **local patterns** such as edges and textures.",
		},
	},
	"statistics": {
		{
			Question:      "Which measure of central tendency is most robust to outliers?",
			Options:       []string{"Mean", "Median", "Range", "Variance"},
			CorrectAnswer: "2",
			Explanation:   "The **median** depends only on the middle value, so extreme values barely move it.",
		},
		{
			Question:      "A p-value below 0.05 usually means:",
			Options:       []string{"The null hypothesis is true", "The effect is large", "The result is unlikely under the null hypothesis", "The sample is biased"},
			CorrectAnswer: "3",
			Explanation:   "A small p-value means the observed data would be **unlikely if the null were true**.",
		},
	},
	"data engineering": {
		{
			Question:      "What does ETL stand for?",
			Options:       []string{"Extract, Transform, Load", "Evaluate, Test, Launch", "Encode, Transfer, Log", "Export, Track, Link"},
			CorrectAnswer: "1",
			Explanation:   "**ETL** pipelines extract data from sources, transform it and load it into a target store.",
		},
		{
			Question:      "Which format is columnar?",
			Options:       []string{"CSV", "JSON", "Parquet", "XML"},
			CorrectAnswer: "3",
			Explanation:   "**Parquet** stores data by column, which speeds up analytical scans.",
		},
	},
	"AI ethics": {
		{
			Question:      "Which is an example of algorithmic bias?",
			Options:       []string{"A model that is slow", "A hiring model that favours one gender", "A model with many parameters", "A model trained on GPUs"},
			CorrectAnswer: "2",
			Explanation:   "Systematically unfair outcomes for a group are **algorithmic bias**.",
		},
		{
			Question:      "What does model explainability help with?",
			Options:       []string{"Reducing dataset size", "Understanding why a model made a decision", "Increasing training speed", "Encrypting predictions"},
			CorrectAnswer: "2",
			Explanation:   "Explainability lets people **understand and contest** automated decisions.",
		},
	},
}

func boolPtr(b bool) *bool { return &b }

var genericCourses = []api.Course{
	{
		Title:           "Introduction to Data Science",
		URL:             "https://www.ibm.com/training/path/data-science-foundations",
		Description:     "A popular introductory course covering the basics of data science.",
		TopicsCovered:   []string{"data science"},
		DifficultyLevel: "beginner",
		Platform:        "IBM",
		IsPaid:          boolPtr(false),
	},
	{
		Title:           "Machine Learning Crash Course",
		URL:             "https://developers.google.com/machine-learning/crash-course",
		Description:     "Google's fast-paced, practical introduction to machine learning.",
		TopicsCovered:   []string{"machine learning"},
		DifficultyLevel: "intermediate",
		Platform:        "Google",
		IsPaid:          boolPtr(false),
	},
	{
		Title:           "Deep Learning Specialization",
		URL:             "https://www.coursera.org/specializations/deep-learning",
		Description:     "A comprehensive program by Andrew Ng on deep learning concepts and applications.",
		TopicsCovered:   []string{"deep learning"},
		DifficultyLevel: "advanced",
		Platform:        "Coursera",
		IsPaid:          boolPtr(true),
	},
	{
		Title:           "Statistics for Data Science",
		URL:             "https://www.edx.org/course/statistics-and-r",
		Description:     "Learn statistical concepts essential for data analysis using R.",
		TopicsCovered:   []string{"statistics"},
		DifficultyLevel: "intermediate",
		Platform:        "edX",
	},
	{
		Title:           "Data Engineering with Google Cloud",
		URL:             "https://www.cloudskillsboost.google/paths/16",
		Description:     "Master data engineering skills using Google Cloud Platform.",
		TopicsCovered:   []string{"data engineering"},
		DifficultyLevel: "intermediate",
		Platform:        "Google Cloud",
	},
	{
		Title:           "AI Ethics: Global Perspectives",
		URL:             "https://www.coursera.org/learn/ai-ethics",
		Description:     "Explore ethical considerations and societal impacts of artificial intelligence.",
		TopicsCovered:   []string{"AI ethics"},
		DifficultyLevel: "intermediate",
		Platform:        "Coursera",
	},
}

var jobs = []api.Job{
	{ID: 1, Title: "Junior Data Scientist", Company: "Northwind Analytics", Location: "Remote", Type: "Full-time"},
	{ID: 2, Title: "Machine Learning Engineer", Company: "Contoso AI", Location: "Bengaluru", Type: "Full-time"},
	{ID: 3, Title: "Data Engineer", Company: "Fabrikam", Location: "Remote", Type: "Contract"},
	{ID: 4, Title: "Analytics Intern", Company: "Tailspin Toys", Location: "Berlin", Type: "Internship"},
	{ID: 5, Title: "Responsible AI Researcher", Company: "Woodgrove Labs", Location: "London", Type: "Full-time"},
}

var events = []api.Event{
	{ID: 0, Title: "Online Data Science Meetup", Description: "Monthly lightning talks from practitioners.", URL: "https://example.com/events/ds-meetup"},
	{ID: 1, Title: "Intro to MLOps Webinar", Description: "Shipping models to production, end to end.", URL: "https://example.com/events/mlops"},
	{ID: 2, Title: "AI Ethics Roundtable", Description: "Fairness, accountability and transparency in practice.", URL: "https://example.com/events/ethics"},
}

// cannedReply stands in for the tutor model: it answers with a short
// markdown coaching note that points at a quiz topic mentioned in the
// message, if any.
func cannedReply(history []api.Turn, message string) string {
	lower := strings.ToLower(message)
	for _, topic := range questionTopics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			return fmt.Sprintf("Good question about **%s**.\n\n- Start with the fundamentals\n- Practise with a short quiz\n- Build one small project", topic)
		}
	}
	if len(history) == 0 {
		return "Hi! I'm your career coach. Tell me about your goals and I'll suggest a learning path."
	}
	return fmt.Sprintf("Noted. We've covered %d topics so far; what would you like to explore next?", len(history))
}
