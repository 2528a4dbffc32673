package notify

// Message keys shared by every locale table.
const (
	msgWelcome         = "welcome"
	msgHelp            = "help"
	msgEmptyPrompt     = "empty_prompt"
	msgQueued          = "queued"
	msgPaymentRequired = "payment_required"
	msgPaymentReceived = "payment_received"
	msgCompleted       = "completed"
	msgCompletedNoLink = "completed_no_link"
	msgFailed          = "failed"
)

var templates = map[string]map[string]string{
	"en": {
		msgWelcome: "Hello! Welcome to the AI drawing bot.\n\n" +
			"Use `/vtuber <description>` to submit a render job.\n" +
			"Example: `/vtuber a silver-haired girl in a cyberpunk jacket`\n\n" +
			"Submitted jobs enter a queue; please be patient while a node picks yours up.",
		msgHelp: "Available commands:\n" +
			"/start - show the welcome message\n" +
			"/help - show this help\n" +
			"/vtuber <description> - create a VTuber model from your description",
		msgEmptyPrompt: "Please include a description. Example: `/vtuber a girl wearing a cat-ear hat`",
		msgQueued: "✅ Job submitted, waiting for a compute node to pick it up...\n\n" +
			"Job ID: `%s`",
		msgPaymentRequired: "Job `%s` created. Please pay %s %s to start it.\n" +
			"Scan the code and put your job ID in the payment note if asked.",
		msgPaymentReceived: "Payment received. Job `%s` is now queued for processing.",
		msgCompleted: "\U0001F389 Your job `%s` is complete!\n\n" +
			"Download your model here:\n%s",
		msgCompletedNoLink: "\U0001F389 Your job `%s` is complete!",
		msgFailed:          "Sorry, your job `%s` failed.",
	},
	"zh": {
		msgWelcome: "你好! 欢迎使用 AI 绘图机器人。\n\n" +
			"使用 `/vtuber <描述>` 来提交一个画图任务。\n" +
			"例如: `/vtuber 一个穿着赛博朋克夹克的银发女孩`\n\n" +
			"任务提交后将进入队列，请耐心等待处理。",
		msgHelp: "可用命令:\n" +
			"/start - 显示欢迎信息\n" +
			"/help - 显示此帮助信息\n" +
			"/vtuber <描述> - 根据您的文字描述创建一个VTuber模型",
		msgEmptyPrompt: "请输入您的描述。例如: `/vtuber 一个戴着猫耳帽子的女孩`",
		msgQueued: "✅ 任务已成功提交，正在排队等待计算节点处理...\n\n" +
			"任务ID: `%s`",
		msgPaymentRequired: "任务 `%s` 已创建。请支付 %s %s 以开始处理。\n" +
			"扫码付款，如需备注请填写任务ID。",
		msgPaymentReceived: "付款已确认，任务 `%s` 已进入处理队列。",
		msgCompleted: "\U0001F389 您的任务 `%s` 已完成！\n\n" +
			"请点击以下链接下载您的模型：\n%s",
		msgCompletedNoLink: "\U0001F389 您的任务 `%s` 已完成！",
		msgFailed:          "很抱歉，您的任务 `%s` 执行失败了。",
	},
}
